package supabase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
)

// Remote tables.
const (
	tableMealPlans = "weekly_meal_plans"
	tableMeals     = "daily_meals"
	tablePrograms  = "weekly_exercise_programs"
	tableWorkouts  = "daily_workouts"
	tableExercises = "exercises"
)

// Store reads and writes plans through PostgREST.
type Store struct {
	client *Client
}

// NewStore creates a Store on top of client.
func NewStore(client *Client) *Store {
	return &Store{client: client}
}

func eq(v string) string {
	return "eq." + v
}

// WeeklyPlan returns the user's meal plan starting on weekStart, or nil when there is none.
func (s *Store) WeeklyPlan(ctx context.Context, userID string, weekStart time.Time) (*planner.WeeklyPlan, error) {
	query := url.Values{
		"select":          {"*,daily_meals(*)"},
		"user_id":         {eq(userID)},
		"week_start_date": {eq(weekStart.Format(time.DateOnly))},
		"limit":           {"1"},
	}

	var plans []planner.WeeklyPlan
	if err := s.client.Select(ctx, tableMealPlans, query, &plans); err != nil {
		return nil, fmt.Errorf("failed to fetch weekly plan: %w", err)
	}
	if len(plans) == 0 {
		return nil, nil
	}

	plan := &plans[0]
	plan.Recompute()
	return plan, nil
}

// Program returns the user's exercise program starting on weekStart, or nil when there is none.
func (s *Store) Program(ctx context.Context, userID string, weekStart time.Time) (*exercise.Program, error) {
	query := url.Values{
		"select":          {"*,daily_workouts(*,exercises(*))"},
		"user_id":         {eq(userID)},
		"week_start_date": {eq(weekStart.Format(time.DateOnly))},
		"limit":           {"1"},
	}

	var programs []exercise.Program
	if err := s.client.Select(ctx, tablePrograms, query, &programs); err != nil {
		return nil, fmt.Errorf("failed to fetch exercise program: %w", err)
	}
	if len(programs) == 0 {
		return nil, nil
	}
	return &programs[0], nil
}

type exerciseProgress struct {
	Completed  bool   `json:"completed"`
	ActualSets int    `json:"actual_sets"`
	ActualReps string `json:"actual_reps"`
	Notes      string `json:"notes"`
	UpdatedAt  string `json:"updated_at"`
}

// UpdateExercise persists the completion fields of an exercise.
func (s *Store) UpdateExercise(ctx context.Context, rec exercise.Record) error {
	patch := exerciseProgress{
		Completed:  rec.Completed,
		ActualSets: rec.ActualSets,
		ActualReps: rec.ActualReps,
		Notes:      rec.Notes,
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.client.Update(ctx, tableExercises, url.Values{"id": {eq(rec.ID)}}, patch); err != nil {
		return fmt.Errorf("failed to update exercise %s: %w", rec.ID, err)
	}
	return nil
}

// UpdateWorkoutCompleted sets the completed flag of a daily workout.
func (s *Store) UpdateWorkoutCompleted(ctx context.Context, workoutID string, completed bool) error {
	patch := map[string]any{"completed": completed}
	if err := s.client.Update(ctx, tableWorkouts, url.Values{"id": {eq(workoutID)}}, patch); err != nil {
		return fmt.Errorf("failed to update workout %s: %w", workoutID, err)
	}
	return nil
}

// DeleteMeal removes a meal from its plan.
func (s *Store) DeleteMeal(ctx context.Context, mealID string) error {
	if err := s.client.Delete(ctx, tableMeals, url.Values{"id": {eq(mealID)}}); err != nil {
		return fmt.Errorf("failed to delete meal %s: %w", mealID, err)
	}
	return nil
}
