package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shared"

	log "github.com/sirupsen/logrus"
)

// Remote generation functions.
const (
	FnGenerateMealPlan        = "generate-meal-plan"
	FnExchangeMeal            = "exchange-meal"
	FnGenerateSnack           = "generate-snack"
	FnGenerateExerciseProgram = "generate-exercise-program"
	FnExchangeExercise        = "exchange-exercise"
	FnSendShoppingListEmail   = "send-shopping-list-email"
)

// Invoker calls a named remote function with a JSON payload and returns the
// raw JSON envelope it answered with.
type Invoker interface {
	Invoke(ctx context.Context, function string, payload any) (json.RawMessage, error)
}

// Recorder receives one record per invocation.
type Recorder interface {
	RecordExecution(exec shared.Execution)
}

// Error is a generation the remote side reported as failed.
type Error struct {
	Function string
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Function, e.Message)
}

// IsFailure reports whether err is a failure reported by the remote function.
func IsFailure(err error) bool {
	var genErr *Error
	return errors.As(err, &genErr)
}

// Preferences steer what the generators produce.
type Preferences struct {
	Goal                string               `json:"goal,omitempty"`
	FitnessLevel        string               `json:"fitness_level,omitempty"`
	AvailableTime       int                  `json:"available_time,omitempty"`
	Equipment           []string             `json:"equipment,omitempty"`
	TargetMuscleGroups  []string             `json:"target_muscle_groups,omitempty"`
	DietaryRestrictions []string             `json:"dietary_restrictions,omitempty"`
	Allergies           []string             `json:"allergies,omitempty"`
	TargetMacros        *planner.Macros      `json:"target_macros,omitempty"`
	WorkoutType         exercise.WorkoutType `json:"workout_type,omitempty"`
	Language            string               `json:"language,omitempty"`
}

// MealPlanRequest asks for a new 7-day meal plan.
type MealPlanRequest struct {
	UserID        string      `json:"user_id"`
	WeekStartDate string      `json:"week_start_date"`
	Preferences   Preferences `json:"preferences"`
}

// ExchangeMealRequest asks for a replacement of one meal.
type ExchangeMealRequest struct {
	UserID      string              `json:"user_id"`
	MealID      string              `json:"meal_id"`
	Reason      string              `json:"reason,omitempty"`
	CurrentMeal *planner.MealRecord `json:"current_meal,omitempty"`
	Preferences Preferences         `json:"preferences"`
}

// SnackRequest asks for a snack filling the remaining calories of a day.
type SnackRequest struct {
	UserID         string      `json:"user_id"`
	WeeklyPlanID   string      `json:"weekly_plan_id"`
	DayNumber      int         `json:"day_number"`
	TargetCalories float64     `json:"target_calories"`
	Preferences    Preferences `json:"preferences"`
}

// ExerciseProgramRequest asks for a new weekly exercise program.
type ExerciseProgramRequest struct {
	UserID        string      `json:"user_id"`
	WeekStartDate string      `json:"week_start_date"`
	Preferences   Preferences `json:"preferences"`
}

// ExchangeExerciseRequest asks for an alternative to one exercise.
type ExchangeExerciseRequest struct {
	UserID          string           `json:"user_id"`
	ExerciseID      string           `json:"exercise_id"`
	Reason          string           `json:"reason,omitempty"`
	CurrentExercise *exercise.Record `json:"current_exercise,omitempty"`
	Preferences     Preferences      `json:"preferences"`
}

// ShoppingEmailRequest sends a rendered shopping list.
type ShoppingEmailRequest struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Subject       string `json:"subject"`
	HTML          string `json:"html"`
	Text          string `json:"text"`
	WeekStartDate string `json:"week_start_date"`
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

// Service is the typed face of an Invoker.
type Service struct {
	invoker   Invoker
	backend   string
	recorders []Recorder
}

// NewService wraps invoker. backend labels the recorded executions.
func NewService(invoker Invoker, backend string, recorders ...Recorder) *Service {
	return &Service{invoker: invoker, backend: backend, recorders: recorders}
}

// GenerateMealPlan runs generate-meal-plan. The returned plan is nil when the
// function persisted it without echoing it back.
func (s *Service) GenerateMealPlan(ctx context.Context, req MealPlanRequest) (*planner.WeeklyPlan, error) {
	var resp struct {
		WeeklyPlan *planner.WeeklyPlan `json:"weekly_plan"`
	}
	if err := s.call(ctx, FnGenerateMealPlan, req, &resp); err != nil {
		return nil, err
	}
	if resp.WeeklyPlan != nil {
		resp.WeeklyPlan.Recompute()
	}
	return resp.WeeklyPlan, nil
}

// ExchangeMeal runs exchange-meal.
func (s *Service) ExchangeMeal(ctx context.Context, req ExchangeMealRequest) (*planner.MealRecord, error) {
	var resp struct {
		Meal *planner.MealRecord `json:"meal"`
	}
	if err := s.call(ctx, FnExchangeMeal, req, &resp); err != nil {
		return nil, err
	}
	return resp.Meal, nil
}

// GenerateSnack runs generate-snack.
func (s *Service) GenerateSnack(ctx context.Context, req SnackRequest) (*planner.MealRecord, error) {
	var resp struct {
		Snack *planner.MealRecord `json:"snack"`
	}
	if err := s.call(ctx, FnGenerateSnack, req, &resp); err != nil {
		return nil, err
	}
	return resp.Snack, nil
}

// GenerateExerciseProgram runs generate-exercise-program.
func (s *Service) GenerateExerciseProgram(ctx context.Context, req ExerciseProgramRequest) (*exercise.Program, error) {
	var resp struct {
		Program *exercise.Program `json:"program"`
	}
	if err := s.call(ctx, FnGenerateExerciseProgram, req, &resp); err != nil {
		return nil, err
	}
	return resp.Program, nil
}

// ExchangeExercise runs exchange-exercise.
func (s *Service) ExchangeExercise(ctx context.Context, req ExchangeExerciseRequest) (*exercise.Record, error) {
	var resp struct {
		Exercise *exercise.Record `json:"exercise"`
	}
	if err := s.call(ctx, FnExchangeExercise, req, &resp); err != nil {
		return nil, err
	}
	return resp.Exercise, nil
}

// SendShoppingListEmail runs send-shopping-list-email.
func (s *Service) SendShoppingListEmail(ctx context.Context, req ShoppingEmailRequest) error {
	return s.call(ctx, FnSendShoppingListEmail, req, nil)
}

func (s *Service) call(ctx context.Context, function string, payload, out any) (err error) {
	start := time.Now()
	defer func() {
		exec := shared.Execution{
			Function: function,
			Backend:  s.backend,
			Success:  err == nil,
			Latency:  time.Since(start),
		}
		for _, r := range s.recorders {
			r.RecordExecution(exec)
		}
	}()

	raw, err := s.invoker.Invoke(ctx, function, payload)
	if err != nil {
		return fmt.Errorf("failed to invoke %s: %w", function, err)
	}

	if err := decodeEnvelope(function, raw, out); err != nil {
		return err
	}
	log.Debugf("%s succeeded in %s", function, time.Since(start))
	return nil
}

// decodeEnvelope maps {success, error, ...payload} onto out.
func decodeEnvelope(function string, raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", function, err)
	}
	if (env.Success != nil && !*env.Success) || (env.Success == nil && env.Error != "") {
		msg := env.Error
		if msg == "" {
			msg = "unknown error"
		}
		return &Error{Function: function, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", function, err)
	}
	return nil
}
