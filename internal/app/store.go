package app

import (
	"context"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/generation"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
)

//go:generate mockgen -source=$GOFILE -destination=store_mock_test.go -package=app

// PlanStore is the remote store of plans and programs.
type PlanStore interface {
	WeeklyPlan(ctx context.Context, userID string, weekStart time.Time) (*planner.WeeklyPlan, error)
	Program(ctx context.Context, userID string, weekStart time.Time) (*exercise.Program, error)
	UpdateExercise(ctx context.Context, rec exercise.Record) error
	UpdateWorkoutCompleted(ctx context.Context, workoutID string, completed bool) error
	DeleteMeal(ctx context.Context, mealID string) error
}

// Generator runs the remote generation functions.
type Generator interface {
	GenerateMealPlan(ctx context.Context, req generation.MealPlanRequest) (*planner.WeeklyPlan, error)
	ExchangeMeal(ctx context.Context, req generation.ExchangeMealRequest) (*planner.MealRecord, error)
	GenerateSnack(ctx context.Context, req generation.SnackRequest) (*planner.MealRecord, error)
	GenerateExerciseProgram(ctx context.Context, req generation.ExerciseProgramRequest) (*exercise.Program, error)
	ExchangeExercise(ctx context.Context, req generation.ExchangeExerciseRequest) (*exercise.Record, error)
	SendShoppingListEmail(ctx context.Context, req generation.ShoppingEmailRequest) error
}
