package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/cache"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/metrics"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/request"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shopping"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/week"

	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNoActivePlan     = errors.New("no active plan for this week")
	ErrNotFound         = errors.New("not found")
	// ErrStale is returned when a response arrived after its request was
	// superseded or cancelled. Nothing was applied.
	ErrStale = errors.New("response discarded: request superseded")
)

// Scopes of last-request-wins tracking, one per dialog kind.
const (
	ScopePlan     = "plan"
	ScopeMeal     = "meal"
	ScopeSnack    = "snack"
	ScopeProgram  = "program"
	ScopeExercise = "exercise"
)

// Deps are the collaborators of a Service. Cache, Tracker and Metrics are
// optional.
type Deps struct {
	Store        PlanStore
	Generator    Generator
	Checklists   shopping.ProgressStore
	Cache        *cache.PlanCache
	Tracker      *request.Tracker
	Metrics      *metrics.Manager
	MealWeek     week.Navigator
	ExerciseWeek week.Navigator
	Closers      []io.Closer
}

// Service is the application core shared by the bot and the CLI.
type Service struct {
	store      PlanStore
	snapshots  SnapshotStore
	generator  Generator
	checklists shopping.ProgressStore
	cache      *cache.PlanCache
	tracker    *request.Tracker
	locks      *request.Locker
	metrics    *metrics.Manager
	mealWeek   week.Navigator
	exWeek     week.Navigator
	closers    []io.Closer
}

// New creates a Service.
func New(deps Deps) *Service {
	s := &Service{
		store:      deps.Store,
		generator:  deps.Generator,
		checklists: deps.Checklists,
		cache:      deps.Cache,
		tracker:    deps.Tracker,
		locks:      request.NewLocker(),
		metrics:    deps.Metrics,
		mealWeek:   deps.MealWeek,
		exWeek:     deps.ExerciseWeek,
		closers:    deps.Closers,
	}
	if snapshots, ok := deps.Store.(SnapshotStore); ok {
		s.snapshots = snapshots
	}
	if s.cache == nil {
		s.cache = cache.NewPlanCache(0, 0)
	}
	if s.tracker == nil {
		s.tracker = request.NewTracker()
	}
	if s.mealWeek.Now == nil {
		s.mealWeek = week.NewNavigator(week.MealPlanStart)
	}
	if s.exWeek.Now == nil {
		s.exWeek = week.NewNavigator(week.ExerciseStart)
	}
	return s
}

// MealWeek returns the meal plan week convention.
func (s *Service) MealWeek() week.Navigator { return s.mealWeek }

// ExerciseWeek returns the exercise program week convention.
func (s *Service) ExerciseWeek() week.Navigator { return s.exWeek }

// Cancel invalidates the pending request of scope for userID. Its response
// will be discarded when it arrives.
func (s *Service) Cancel(userID, scope string) {
	s.tracker.Cancel(scopeKey(scope, userID))
}

// CacheHitRate returns the share of plan and program lookups served from the cache.
func (s *Service) CacheHitRate() float64 {
	return s.cache.HitRate()
}

// Close releases the closers handed to New.
func (s *Service) Close() error {
	var err error
	for _, c := range s.closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

func scopeKey(scope, userID string) string {
	return scope + ":" + userID
}

func requireUser(userID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// plan returns the meal plan of the week starting at start, from the cache when possible.
func (s *Service) plan(ctx context.Context, userID string, start time.Time) (*planner.WeeklyPlan, error) {
	key := shopping.WeekKey(start)
	if p, ok := s.cache.Plan(userID, key); ok {
		return p, nil
	}

	p, err := s.store.WeeklyPlan(ctx, userID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	if p == nil {
		return nil, ErrNoActivePlan
	}
	s.cache.SetPlan(userID, key, p)
	return p, nil
}

func (s *Service) program(ctx context.Context, userID string, start time.Time) (*exercise.Program, error) {
	key := shopping.WeekKey(start)
	if p, ok := s.cache.Program(userID, key); ok {
		return p, nil
	}

	p, err := s.store.Program(ctx, userID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise program: %w", err)
	}
	if p == nil {
		return nil, ErrNoActivePlan
	}
	s.cache.SetProgram(userID, key, p)
	return p, nil
}

// lockWeek serializes the read-modify-write cycles on one cached plan or
// program. kind is ScopePlan or ScopeProgram.
func (s *Service) lockWeek(kind, userID, weekKey string) func() {
	return s.locks.Lock(kind + "/" + userID + "/" + weekKey)
}

// commitPlan saves the snapshot when the store keeps them and caches the plan.
func (s *Service) commitPlan(ctx context.Context, userID, weekKey string, plan *planner.WeeklyPlan) error {
	if s.snapshots != nil {
		if err := s.snapshots.SavePlan(ctx, userID, weekKey, plan); err != nil {
			return err
		}
	}
	s.cache.SetPlan(userID, weekKey, plan)
	return nil
}

func (s *Service) commitProgram(ctx context.Context, userID, weekKey string, program *exercise.Program) error {
	if s.snapshots != nil {
		if err := s.snapshots.SaveProgram(ctx, userID, weekKey, program); err != nil {
			return err
		}
	}
	s.cache.SetProgram(userID, weekKey, program)
	return nil
}

// accept reports whether the response of token may be applied and counts
// the discarded ones.
func (s *Service) accept(token request.Token) bool {
	if token.Valid() {
		return true
	}
	log.Infof("discarding stale %s response", token.Scope)
	if s.metrics != nil {
		s.metrics.StaleDiscarded(scopeOf(token.Scope))
	}
	return false
}

func scopeOf(key string) string {
	scope, _, _ := strings.Cut(key, ":")
	return scope
}

// acquire guards against running the same generation twice at once.
func (s *Service) acquire(parts ...string) (func(), error) {
	key := strings.Join(parts, "/")
	release, err := s.tracker.Acquire(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return release, nil
}
