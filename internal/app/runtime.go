package app

import (
	"context"
	"fmt"
	"io"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/cache"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/config"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/database"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/generation"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/metrics"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shopping"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/supabase"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/week"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Runtime is the Service wired to its infrastructure, as the binaries use it.
type Runtime struct {
	Service  *Service
	Supabase *supabase.Client
	DB       *database.DB
	Usage    *metrics.Store
	Metrics  *metrics.Manager
}

// Open wires a Service from cfg. Collectors are registered on reg, which may be nil.
func Open(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*Runtime, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	client := supabase.NewClient(cfg)
	usage := metrics.NewStore(db.SQL)
	manager := metrics.NewManager("bodywise", "", reg)

	var (
		invoker generation.Invoker = client
		store   PlanStore          = supabase.NewStore(client)
		closers []io.Closer
	)
	if cfg.GenerationBackend == config.BackendGemini {
		gemini, err := generation.NewGeminiInvoker(ctx, cfg)
		if err != nil {
			return nil, multierr.Append(err, db.Close())
		}
		invoker = gemini
		// Gemini answers are not persisted remotely.
		store = NewLocalStore(db.SQL)
		closers = append(closers, gemini)
	}
	log.Infof("generation backend: %s", cfg.GenerationBackend)

	svc := New(Deps{
		Store:        store,
		Generator:    generation.NewService(invoker, cfg.GenerationBackend, manager, usage),
		Checklists:   shopping.NewRepository(db.SQL),
		Cache:        cache.NewPlanCache(cfg.PlanCacheMB, cfg.PlanCacheTTL),
		Metrics:      manager,
		MealWeek:     week.NewNavigator(cfg.MealWeekStart),
		ExerciseWeek: week.NewNavigator(cfg.ExerciseWeekStart),
		Closers:      closers,
	})

	return &Runtime{
		Service:  svc,
		Supabase: client,
		DB:       db,
		Usage:    usage,
		Metrics:  manager,
	}, nil
}

// Close releases the service and then the database.
func (r *Runtime) Close() error {
	return multierr.Combine(r.Service.Close(), r.DB.Close())
}
