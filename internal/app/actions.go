package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/generation"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shopping"

	log "github.com/sirupsen/logrus"
)

// ToggleItem flips the checked state of the shopping item at position n
// (1-based, in ShoppingView.Items order) and returns its new state.
func (s *Service) ToggleItem(ctx context.Context, userID string, offset, n int) (shopping.Item, bool, error) {
	view, err := s.ShoppingList(ctx, userID, offset)
	if err != nil {
		return shopping.Item{}, false, err
	}
	if n < 1 || n > len(view.Items) {
		return shopping.Item{}, false, fmt.Errorf("item %d: %w", n, ErrNotFound)
	}

	item := view.Items[n-1]
	checked, err := view.Checklist.Toggle(ctx, item.Key)
	if err != nil {
		return item, checked, err
	}
	if s.metrics != nil {
		s.metrics.CounterChecklistSaves.Inc()
	}
	return item, checked, nil
}

// ExportShoppingList renders the printable list and its plain text twin.
func (s *Service) ExportShoppingList(ctx context.Context, userID string, offset int) (html, text string, err error) {
	view, err := s.ShoppingList(ctx, userID, offset)
	if err != nil {
		return "", "", err
	}

	html, err = shopping.RenderPrintHTML("Shopping list "+view.Range, view.Result, view.Checklist.IsChecked)
	if err != nil {
		return "", "", err
	}
	text, err = shopping.PlainText(html)
	if err != nil {
		return "", "", err
	}
	return html, text, nil
}

// EmailShoppingList sends the rendered list to email.
func (s *Service) EmailShoppingList(ctx context.Context, userID, email string, offset int) error {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email address %q", email)
	}

	html, text, err := s.ExportShoppingList(ctx, userID, offset)
	if err != nil {
		return err
	}

	start := s.mealWeek.Start(offset)
	return s.generator.SendShoppingListEmail(ctx, generation.ShoppingEmailRequest{
		UserID:        userID,
		Email:         email,
		Subject:       "Your shopping list for " + s.mealWeek.Range(offset),
		HTML:          html,
		Text:          text,
		WeekStartDate: shopping.WeekKey(start),
	})
}

// CompleteExercise marks an exercise of the week at offset as done. When it
// completes its workout, the workout is flagged as well.
func (s *Service) CompleteExercise(ctx context.Context, userID string, offset int, exerciseID string, actualSets int, actualReps, notes string) (*exercise.Record, error) {
	return s.updateExercise(ctx, userID, offset, exerciseID, func(rec *exercise.Record) {
		rec.MarkCompleted(actualSets, actualReps, notes)
	})
}

// ResetExercise clears the completion of an exercise.
func (s *Service) ResetExercise(ctx context.Context, userID string, offset int, exerciseID string) (*exercise.Record, error) {
	return s.updateExercise(ctx, userID, offset, exerciseID, (*exercise.Record).ResetProgress)
}

// updateExercise writes the change remotely before applying it to the cached
// program, so a failed write leaves the local state untouched.
func (s *Service) updateExercise(ctx context.Context, userID string, offset int, exerciseID string, change func(*exercise.Record)) (*exercise.Record, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	start := s.exWeek.Start(offset)
	weekKey := shopping.WeekKey(start)
	unlock := s.lockWeek(ScopeProgram, userID, weekKey)
	defer unlock()

	program, err := s.program(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	current, workout := program.Exercise(exerciseID)
	if current == nil {
		return nil, fmt.Errorf("exercise %s: %w", exerciseID, ErrNotFound)
	}

	updated := *current
	change(&updated)
	if err := s.store.UpdateExercise(ctx, updated); err != nil {
		return nil, err
	}
	*current = updated

	allDone := len(workout.Exercises) > 0
	for _, rec := range workout.Exercises {
		allDone = allDone && rec.Completed
	}
	if allDone != workout.Completed {
		if err := s.store.UpdateWorkoutCompleted(ctx, workout.ID, allDone); err != nil {
			log.Warnf("exercise %s saved but workout %s flag was not: %s", exerciseID, workout.ID, err)
		} else {
			workout.Completed = allDone
		}
	}

	if err := s.commitProgram(ctx, userID, weekKey, program); err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveMeal deletes a meal from the plan of the week at offset and returns it.
// The remote delete runs first, so a failure leaves the plan untouched.
func (s *Service) RemoveMeal(ctx context.Context, userID string, offset int, mealID string) (*planner.MealRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	start := s.mealWeek.Start(offset)
	weekKey := shopping.WeekKey(start)
	unlock := s.lockWeek(ScopePlan, userID, weekKey)
	defer unlock()

	plan, err := s.plan(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	meal, ok := plan.MealByID(mealID)
	if !ok {
		return nil, fmt.Errorf("meal %s: %w", mealID, ErrNotFound)
	}

	if err := s.store.DeleteMeal(ctx, mealID); err != nil {
		return nil, fmt.Errorf("failed to delete meal %s: %w", mealID, err)
	}
	plan.RemoveMeal(mealID)
	if err := s.commitPlan(ctx, userID, weekKey, plan); err != nil {
		return nil, err
	}
	return &meal, nil
}
