package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shopping"
)

// SnapshotStore keeps plans and programs whole. A Service whose PlanStore is
// also a SnapshotStore saves the full snapshot after every change.
type SnapshotStore interface {
	SavePlan(ctx context.Context, userID, weekKey string, plan *planner.WeeklyPlan) error
	SaveProgram(ctx context.Context, userID, weekKey string, program *exercise.Program) error
}

// LocalStore keeps plans and programs in the local database. It backs the
// Gemini generation backend, where nothing is persisted remotely.
type LocalStore struct {
	plans    *planner.PlanRepository
	programs *exercise.ProgramRepository
}

var (
	_ PlanStore     = (*LocalStore)(nil)
	_ SnapshotStore = (*LocalStore)(nil)
)

// NewLocalStore creates a LocalStore on d.
func NewLocalStore(d *sql.DB) *LocalStore {
	return &LocalStore{
		plans:    planner.NewPlanRepository(d),
		programs: exercise.NewProgramRepository(d),
	}
}

func (s *LocalStore) WeeklyPlan(ctx context.Context, userID string, weekStart time.Time) (*planner.WeeklyPlan, error) {
	return s.plans.ByWeek(ctx, userID, shopping.WeekKey(weekStart))
}

func (s *LocalStore) Program(ctx context.Context, userID string, weekStart time.Time) (*exercise.Program, error) {
	return s.programs.ByWeek(ctx, userID, shopping.WeekKey(weekStart))
}

func (s *LocalStore) SavePlan(ctx context.Context, userID, weekKey string, plan *planner.WeeklyPlan) error {
	return s.plans.Save(ctx, userID, weekKey, plan)
}

func (s *LocalStore) SaveProgram(ctx context.Context, userID, weekKey string, program *exercise.Program) error {
	return s.programs.Save(ctx, userID, weekKey, program)
}

// Row level writes land with the next snapshot.

func (s *LocalStore) UpdateExercise(context.Context, exercise.Record) error { return nil }

func (s *LocalStore) UpdateWorkoutCompleted(context.Context, string, bool) error { return nil }

func (s *LocalStore) DeleteMeal(context.Context, string) error { return nil }
