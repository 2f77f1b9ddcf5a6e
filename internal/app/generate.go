package app

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/generation"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shopping"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/week"

	log "github.com/sirupsen/logrus"
)

// DefaultDailyCalories is the daily target used for snacks when the
// preferences carry none.
const DefaultDailyCalories = 2000.0

const minSnackCalories = 100.0

// RegeneratePlan generates a new meal plan for the week at offset.
func (s *Service) RegeneratePlan(ctx context.Context, userID string, offset int, prefs generation.Preferences) (*planner.WeeklyPlan, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	start := s.mealWeek.Start(offset)
	weekKey := shopping.WeekKey(start)
	release, err := s.acquire(ScopePlan, userID, weekKey)
	if err != nil {
		return nil, err
	}
	defer release()

	token := s.tracker.Begin(scopeKey(ScopePlan, userID))
	plan, err := s.generator.GenerateMealPlan(ctx, generation.MealPlanRequest{
		UserID:        userID,
		WeekStartDate: weekKey,
		Preferences:   prefs,
	})
	if err != nil {
		return nil, err
	}
	if !s.accept(token) {
		// The remote may have stored the discarded plan.
		s.cache.InvalidatePlan(userID, weekKey)
		return nil, ErrStale
	}

	unlock := s.lockWeek(ScopePlan, userID, weekKey)
	defer unlock()

	// A new plan starts with an empty shopping checklist.
	if s.checklists != nil {
		if err := s.checklists.DeleteWeek(ctx, userID, weekKey); err != nil {
			log.Warnf("plan %s regenerated but its shopping progress was not cleared: %s", weekKey, err)
		}
	}

	if plan == nil {
		s.cache.InvalidatePlan(userID, weekKey)
		return s.plan(ctx, userID, start)
	}
	if err := s.commitPlan(ctx, userID, weekKey, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ExchangeMeal replaces one meal of the week at offset with a generated alternative.
func (s *Service) ExchangeMeal(ctx context.Context, userID string, offset int, mealID, reason string, prefs generation.Preferences) (*planner.MealRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	start := s.mealWeek.Start(offset)
	weekKey := shopping.WeekKey(start)
	plan, err := s.plan(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	current, ok := plan.MealByID(mealID)
	if !ok {
		return nil, fmt.Errorf("meal %s: %w", mealID, ErrNotFound)
	}

	release, err := s.acquire(ScopeMeal, userID, mealID)
	if err != nil {
		return nil, err
	}
	defer release()

	token := s.tracker.Begin(scopeKey(ScopeMeal, userID))
	meal, err := s.generator.ExchangeMeal(ctx, generation.ExchangeMealRequest{
		UserID:      userID,
		MealID:      mealID,
		Reason:      reason,
		CurrentMeal: &current,
		Preferences: prefs,
	})
	if err != nil {
		return nil, err
	}
	if !s.accept(token) {
		s.cache.InvalidatePlan(userID, weekKey)
		return nil, ErrStale
	}

	unlock := s.lockWeek(ScopePlan, userID, weekKey)
	defer unlock()

	if meal == nil {
		return s.refetchMeal(ctx, userID, start, mealID)
	}
	if meal.ID == "" {
		meal.ID = mealID
	}
	// The alternative takes the slot of the meal it replaces.
	if meal.DayNumber == 0 {
		meal.DayNumber = current.DayNumber
	}
	if meal.MealType == "" {
		meal.MealType = current.MealType
	}
	if meal.WeeklyPlanID == "" {
		meal.WeeklyPlanID = current.WeeklyPlanID
	}

	// Other changes may have landed while the alternative was generated.
	plan, err = s.plan(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	if !plan.ReplaceMeal(mealID, *meal) {
		return nil, fmt.Errorf("meal %s: %w", mealID, ErrNotFound)
	}
	if err := s.commitPlan(ctx, userID, weekKey, plan); err != nil {
		return nil, err
	}
	return meal, nil
}

// AddSnack generates a snack filling the calories day still misses. The
// snack is nil when the remote function stored it without echoing it back;
// the refreshed plan is cached either way.
func (s *Service) AddSnack(ctx context.Context, userID string, offset, dayNumber int, prefs generation.Preferences) (*planner.MealRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if dayNumber < 1 || dayNumber > week.Length {
		return nil, fmt.Errorf("day %d: %w", dayNumber, ErrNotFound)
	}

	start := s.mealWeek.Start(offset)
	weekKey := shopping.WeekKey(start)
	plan, err := s.plan(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	release, err := s.acquire(ScopeSnack, userID, weekKey, strconv.Itoa(dayNumber))
	if err != nil {
		return nil, err
	}
	defer release()

	token := s.tracker.Begin(scopeKey(ScopeSnack, userID))
	snack, err := s.generator.GenerateSnack(ctx, generation.SnackRequest{
		UserID:         userID,
		WeeklyPlanID:   plan.ID,
		DayNumber:      dayNumber,
		TargetCalories: snackCalories(plan, dayNumber, prefs),
		Preferences:    prefs,
	})
	if err != nil {
		return nil, err
	}
	if !s.accept(token) {
		s.cache.InvalidatePlan(userID, weekKey)
		return nil, ErrStale
	}

	unlock := s.lockWeek(ScopePlan, userID, weekKey)
	defer unlock()

	if snack == nil {
		s.cache.InvalidatePlan(userID, weekKey)
		if _, err := s.plan(ctx, userID, start); err != nil {
			return nil, err
		}
		return nil, nil
	}
	snack.DayNumber = dayNumber
	snack.MealType = planner.MealTypeSnack

	plan, err = s.plan(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	plan.Meals = append(plan.Meals, *snack)
	plan.Recompute()
	if err := s.commitPlan(ctx, userID, weekKey, plan); err != nil {
		return nil, err
	}
	return snack, nil
}

// snackCalories is what the day misses to reach the daily target, never
// less than a small snack.
func snackCalories(plan *planner.WeeklyPlan, dayNumber int, prefs generation.Preferences) float64 {
	target := DefaultDailyCalories
	if prefs.TargetMacros != nil && prefs.TargetMacros.Calories > 0 {
		target = prefs.TargetMacros.Calories
	}
	eaten := planner.SumMacros(planner.GroupMealsByDay(plan.Meals)[dayNumber]).Calories
	if missing := target - eaten; missing > minSnackCalories {
		return missing
	}
	return minSnackCalories
}

// RegenerateProgram generates a new exercise program for the week at offset.
func (s *Service) RegenerateProgram(ctx context.Context, userID string, offset int, prefs generation.Preferences) (*exercise.Program, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	start := s.exWeek.Start(offset)
	weekKey := shopping.WeekKey(start)
	release, err := s.acquire(ScopeProgram, userID, weekKey)
	if err != nil {
		return nil, err
	}
	defer release()

	token := s.tracker.Begin(scopeKey(ScopeProgram, userID))
	program, err := s.generator.GenerateExerciseProgram(ctx, generation.ExerciseProgramRequest{
		UserID:        userID,
		WeekStartDate: weekKey,
		Preferences:   prefs,
	})
	if err != nil {
		return nil, err
	}
	if !s.accept(token) {
		s.cache.InvalidateProgram(userID, weekKey)
		return nil, ErrStale
	}

	unlock := s.lockWeek(ScopeProgram, userID, weekKey)
	defer unlock()

	if program == nil {
		s.cache.InvalidateProgram(userID, weekKey)
		return s.program(ctx, userID, start)
	}
	if err := s.commitProgram(ctx, userID, weekKey, program); err != nil {
		return nil, err
	}
	return program, nil
}

// SwapExercise replaces an exercise with a generated alternative.
func (s *Service) SwapExercise(ctx context.Context, userID string, offset int, exerciseID, reason string, prefs generation.Preferences) (*exercise.Record, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	start := s.exWeek.Start(offset)
	weekKey := shopping.WeekKey(start)
	program, err := s.program(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	current, _ := program.Exercise(exerciseID)
	if current == nil {
		return nil, fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}
	snapshot := *current

	release, err := s.acquire(ScopeExercise, userID, exerciseID)
	if err != nil {
		return nil, err
	}
	defer release()

	token := s.tracker.Begin(scopeKey(ScopeExercise, userID))
	rec, err := s.generator.ExchangeExercise(ctx, generation.ExchangeExerciseRequest{
		UserID:          userID,
		ExerciseID:      exerciseID,
		Reason:          reason,
		CurrentExercise: &snapshot,
		Preferences:     prefs,
	})
	if err != nil {
		return nil, err
	}
	if !s.accept(token) {
		s.cache.InvalidateProgram(userID, weekKey)
		return nil, ErrStale
	}

	unlock := s.lockWeek(ScopeProgram, userID, weekKey)
	defer unlock()

	if rec == nil {
		s.cache.InvalidateProgram(userID, weekKey)
		program, err = s.program(ctx, userID, start)
		if err != nil {
			return nil, err
		}
		if fresh, _ := program.Exercise(exerciseID); fresh != nil {
			return fresh, nil
		}
		return nil, fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}

	if rec.ID == "" {
		rec.ID = exerciseID
	}
	if rec.OrderNumber == 0 {
		rec.OrderNumber = snapshot.OrderNumber
	}

	program, err = s.program(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	current, _ = program.Exercise(exerciseID)
	if current == nil {
		return nil, fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}
	*current = *rec
	if err := s.commitProgram(ctx, userID, weekKey, program); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) refetchMeal(ctx context.Context, userID string, start time.Time, mealID string) (*planner.MealRecord, error) {
	s.cache.InvalidatePlan(userID, shopping.WeekKey(start))
	plan, err := s.plan(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	meal, ok := plan.MealByID(mealID)
	if !ok {
		return nil, fmt.Errorf("meal %s: %w", mealID, ErrNotFound)
	}
	return &meal, nil
}
