package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/app"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/week"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)

func TestPrintWeek(t *testing.T) {
	plan := &planner.WeeklyPlan{
		WeekStartDate: "2024-01-06",
		Meals: []planner.MealRecord{
			{ID: "m1", DayNumber: 1, MealType: planner.MealTypeBreakfast, Name: "Chicken Omelette", Calories: 400},
			{ID: "m2", DayNumber: 1, MealType: planner.MealTypeLunch, Name: "Rice Bowl", Calories: 550},
		},
	}
	plan.Recompute()

	var out bytes.Buffer
	printWeek(&out, &app.WeekView{
		Start:     start,
		Range:     week.FormatRange(start),
		Days:      week.Days(start),
		Today:     1,
		Plan:      plan,
		Summaries: planner.DaySummaries(plan.Meals),
	})

	s := out.String()
	assert.Contains(t, s, "Meal plan Jan 6 - Jan 12, 2024")
	assert.Contains(t, s, "Sat Jan 6 (today)  950 kcal")
	assert.Contains(t, s, "Chicken Omelette")
	assert.Contains(t, s, "m2")
	assert.Contains(t, s, "Week: 950 kcal")
}

func TestPrintWorkout(t *testing.T) {
	days := week.Days(start)
	push := &exercise.DailyWorkout{
		ID:          "d1",
		DayNumber:   1,
		WorkoutName: "Push",
		Exercises: []exercise.Record{
			{ID: "e1", Name: "Bench Press", Sets: 3, Reps: "10", Category: exercise.CategoryStrength, Completed: true},
		},
	}
	rest := &exercise.DailyWorkout{ID: "d2", DayNumber: 2, WorkoutName: "Rest", IsRestDay: true}

	var out bytes.Buffer
	printWorkout(&out, &app.WorkoutView{
		Range:   week.FormatRange(start),
		Program: &exercise.Program{ProgramName: "Strength Basics"},
		Days: []app.WorkoutDay{
			{Day: days[0], Workout: push, Groups: exercise.GroupByCategory(push.Exercises), Progress: exercise.DayProgress(*push)},
			{Day: days[1], Workout: rest},
			{Day: days[2]},
		},
	})

	s := out.String()
	assert.Contains(t, s, "Strength Basics Jan 6 - Jan 12, 2024")
	assert.Contains(t, s, "Push (100%)")
	assert.Contains(t, s, "STRENGTH")
	assert.Contains(t, s, "[x] Bench Press")
	assert.Contains(t, s, "rest day")
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), nil, "bogus", nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command: bogus")
}
