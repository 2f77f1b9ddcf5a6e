package metrics

import (
	"net/http"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shared"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

type Manager struct {
	// counters
	CounterGenerations    *prometheus.CounterVec
	CounterStaleDiscarded *prometheus.CounterVec
	CounterChecklistSaves prometheus.Counter

	// gauges
	GaugeActiveTimers prometheus.Gauge

	// histograms
	HistGenerationDuration *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

func NewTestManager() *Manager {
	return NewManager("bodywise", "test", prometheus.NewRegistry())
}

// NewManager registers the collectors on reg. reg doubles as the gatherer for
// Handler when it is a *prometheus.Registry.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterGenerations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "generation_requests",
		Help:      "The total number of remote generation requests",
	}, []string{"function", "status"})
	counterStale := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stale_responses_discarded",
		Help:      "Responses that arrived after their request was superseded or cancelled",
	}, []string{"scope"})
	counterChecklistSaves := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "checklist_saves",
		Help:      "The total number of shopping checklist writes",
	})

	gaugeActiveTimers := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "active_timers",
		Help:      "Workout session timers currently ticking",
	})

	histGenerationDuration := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
			Name:      "generation_duration_seconds",
			Help:      "Duration of remote generation requests in seconds",
		},
		[]string{"function"},
	)

	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	return &Manager{
		CounterGenerations:     counterGenerations,
		CounterStaleDiscarded:  counterStale,
		CounterChecklistSaves:  counterChecklistSaves,
		GaugeActiveTimers:      gaugeActiveTimers,
		HistGenerationDuration: histGenerationDuration,
		gatherer:               gatherer,
	}
}

// RecordExecution counts one generation call and observes its latency.
func (m *Manager) RecordExecution(exec shared.Execution) {
	status := statusSuccess
	if !exec.Success {
		status = statusFailure
	}
	m.CounterGenerations.WithLabelValues(exec.Function, status).Inc()
	m.HistGenerationDuration.WithLabelValues(exec.Function).Observe(exec.Latency.Seconds())
}

// StaleDiscarded counts a response dropped because its token was no longer valid.
func (m *Manager) StaleDiscarded(scope string) {
	m.CounterStaleDiscarded.WithLabelValues(scope).Inc()
}

// SetActiveTimers reports the number of running session timers.
func (m *Manager) SetActiveTimers(n int) {
	m.GaugeActiveTimers.Set(float64(n))
}

// Handler exposes the registered collectors in the Prometheus text format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
