package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/aggregate"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shopping"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/week"
)

// WeekView is the meal plan of one week.
type WeekView struct {
	Start     time.Time
	Range     string
	Days      []week.Day
	Today     int
	Plan      *planner.WeeklyPlan
	Summaries []planner.DaySummary
}

// DayView is one day of a meal plan.
type DayView struct {
	Day     week.Day
	Range   string
	Summary planner.DaySummary
}

// ShoppingView is the consolidated shopping list of a week with its checklist.
type ShoppingView struct {
	Start     time.Time
	Range     string
	WeekKey   string
	Result    shopping.Result
	Items     []shopping.Item
	Checklist *shopping.Checklist
	Progress  aggregate.Progress
}

// WorkoutDay is one day of an exercise program.
type WorkoutDay struct {
	Day      week.Day
	Workout  *exercise.DailyWorkout
	Groups   aggregate.Groups[exercise.Category, exercise.Record]
	Progress aggregate.Progress
}

// WorkoutView is an exercise program of one week with its progress.
type WorkoutView struct {
	Start        time.Time
	Range        string
	Today        int
	Program      *exercise.Program
	Days         []WorkoutDay
	Progress     aggregate.Progress
	DaysProgress aggregate.Progress
}

// Week returns the meal plan view of the week at offset.
func (s *Service) Week(ctx context.Context, userID string, offset int) (*WeekView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	start := s.mealWeek.Start(offset)
	plan, err := s.plan(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	view := &WeekView{
		Start:     start,
		Range:     week.FormatRange(start),
		Days:      week.Days(start),
		Plan:      plan,
		Summaries: planner.DaySummaries(plan.Meals),
	}
	if offset == 0 {
		view.Today = s.mealWeek.Today()
	}
	return view, nil
}

// Day returns a single day (1-7) of the meal plan at offset.
func (s *Service) Day(ctx context.Context, userID string, dayNumber, offset int) (*DayView, error) {
	if dayNumber < 1 || dayNumber > week.Length {
		return nil, fmt.Errorf("day %d: %w", dayNumber, ErrNotFound)
	}

	view, err := s.Week(ctx, userID, offset)
	if err != nil {
		return nil, err
	}
	return &DayView{
		Day:     view.Days[dayNumber-1],
		Range:   view.Range,
		Summary: view.Summaries[dayNumber-1],
	}, nil
}

// ShoppingList consolidates the ingredients of the week at offset and loads
// its checklist.
func (s *Service) ShoppingList(ctx context.Context, userID string, offset int) (*ShoppingView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	start := s.mealWeek.Start(offset)
	plan, err := s.plan(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	weekKey := shopping.WeekKey(start)
	checklist, err := shopping.LoadChecklist(ctx, s.checklists, userID, weekKey)
	if err != nil {
		return nil, err
	}

	// Meals are consolidated in day order, the order the week view shows them.
	result := shopping.Consolidate(aggregate.Flatten(planner.GroupMealsByDay(plan.Meals), week.Length))
	return &ShoppingView{
		Start:     start,
		Range:     week.FormatRange(start),
		WeekKey:   weekKey,
		Result:    result,
		Items:     result.Sorted(),
		Checklist: checklist,
		Progress:  checklist.Progress(result.Items),
	}, nil
}

// Workout returns the exercise program view of the week at offset.
func (s *Service) Workout(ctx context.Context, userID string, offset int) (*WorkoutView, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	start := s.exWeek.Start(offset)
	program, err := s.program(ctx, userID, start)
	if err != nil {
		return nil, err
	}

	byDay := exercise.GroupWorkoutsByDay(program.DailyWorkouts)
	view := &WorkoutView{
		Start:        start,
		Range:        week.FormatRange(start),
		Program:      program,
		Progress:     exercise.WeekProgress(program.DailyWorkouts),
		DaysProgress: exercise.WorkoutDayProgress(program.DailyWorkouts),
	}
	if offset == 0 {
		view.Today = s.exWeek.Today()
	}

	for _, day := range week.Days(start) {
		wd := WorkoutDay{Day: day}
		if workouts := byDay[day.DayNumber]; len(workouts) > 0 {
			w := workouts[0]
			wd.Workout = &w
			wd.Groups = exercise.GroupByCategory(w.Exercises)
			wd.Progress = exercise.DayProgress(w)
		}
		view.Days = append(view.Days, wd)
	}
	return view, nil
}
