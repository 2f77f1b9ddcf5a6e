package exercise_test

import (
	"encoding/json"
	"testing"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const programJSON = `{
	"id": "prog-1",
	"user_id": "u1",
	"program_name": "Full Body Starter",
	"difficulty_level": "beginner",
	"workout_type": "home",
	"current_week": 1,
	"week_start_date": "2024-01-08",
	"status": "active",
	"daily_workouts": [
		{
			"id": "d1", "day_number": 1, "workout_name": "Upper Body", "is_rest_day": false,
			"estimated_duration": "45", "estimated_calories": 320,
			"exercises": [
				{"id": "e2", "name": "Push-ups", "sets": 3, "reps": "8-12", "rest_seconds": 60, "order_number": 2, "completed": true},
				{"id": "e1", "name": "Arm Circles", "sets": 1, "reps": 20, "order_number": 1, "muscle_groups": "shoulders"},
				{"id": "e3", "name": "Chest Stretch", "sets": "1", "reps": "30s", "order_number": 3, "completed": null},
				"garbage"
			]
		},
		{"id": "d2", "day_number": 2, "workout_name": "Active Recovery", "exercises": [
			{"id": "r1", "name": "Walk", "completed": true}
		]},
		{"id": "d3", "day_number": 3, "workout_name": "Legs", "is_rest_day": true, "exercises": []},
		{"id": "d4", "day_number": 4, "workout_name": "Cardio Blast", "completed": true, "exercises": [
			{"id": "c1", "name": "Jump Rope", "category": "CARDIO"}
		]}
	]
}`

func decodeProgram(t *testing.T) exercise.Program {
	t.Helper()
	var p exercise.Program
	require.NoError(t, json.Unmarshal([]byte(programJSON), &p))
	return p
}

func TestProgram_Decode(t *testing.T) {
	p := decodeProgram(t)

	assert.Equal(t, exercise.WorkoutTypeHome, p.WorkoutType)
	require.Len(t, p.DailyWorkouts, 4)

	day1 := p.DailyWorkouts[0]
	assert.Equal(t, 45, day1.EstimatedDuration)
	require.Len(t, day1.Exercises, 3)
	assert.Equal(t, []string{"e1", "e2", "e3"}, []string{day1.Exercises[0].ID, day1.Exercises[1].ID, day1.Exercises[2].ID})
	assert.Equal(t, "20", day1.Exercises[0].Reps)
	assert.Equal(t, []string{"shoulders"}, day1.Exercises[0].MuscleGroups)
	assert.Equal(t, "8-12", day1.Exercises[1].Reps)
	assert.True(t, day1.Exercises[1].Completed)
	assert.Equal(t, 1, day1.Exercises[2].Sets)
	assert.False(t, day1.Exercises[2].Completed)

	ws, err := p.WeekStart(nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-08", ws.Format("2006-01-02"))
}

func TestDailyWorkout_RestDay(t *testing.T) {
	cases := []struct {
		name    string
		workout exercise.DailyWorkout
		want    bool
	}{
		{"flagged", exercise.DailyWorkout{IsRestDay: true, Exercises: []exercise.Record{{ID: "x"}}}, true},
		{"no exercises", exercise.DailyWorkout{WorkoutName: "Push"}, true},
		{"rest name", exercise.DailyWorkout{WorkoutName: "Rest Day", Exercises: []exercise.Record{{ID: "x"}}}, true},
		{"recovery name", exercise.DailyWorkout{WorkoutName: "active recovery", Exercises: []exercise.Record{{ID: "x"}}}, true},
		{"off day name", exercise.DailyWorkout{WorkoutName: "Off Day", Exercises: []exercise.Record{{ID: "x"}}}, true},
		{"restorative is training", exercise.DailyWorkout{WorkoutName: "Restorative Flow", Exercises: []exercise.Record{{ID: "x"}}}, false},
		{"training", exercise.DailyWorkout{WorkoutName: "Legs", Exercises: []exercise.Record{{ID: "x"}}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.workout.RestDay())
		})
	}
}

func TestRecord_EffectiveCategory(t *testing.T) {
	cases := map[string]struct {
		rec  exercise.Record
		want exercise.Category
	}{
		"explicit":         {exercise.Record{Name: "Squat", Category: exercise.CategoryCooldown}, exercise.CategoryCooldown},
		"unknown explicit": {exercise.Record{Name: "Squat", Category: "mystery"}, exercise.CategoryStrength},
		"warmup":           {exercise.Record{Name: "Dynamic Warm-up"}, exercise.CategoryWarmup},
		"cooldown":         {exercise.Record{Name: "Hamstring Stretch"}, exercise.CategoryCooldown},
		"cardio":           {exercise.Record{Name: "Burpees"}, exercise.CategoryCardio},
		"muscle groups":    {exercise.Record{Name: "Intervals", MuscleGroups: []string{"cardio"}}, exercise.CategoryCardio},
		"crunches":         {exercise.Record{Name: "Bicycle Crunches"}, exercise.CategoryStrength},
		"strength":         {exercise.Record{Name: "Bench Press"}, exercise.CategoryStrength},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.rec.EffectiveCategory())
		})
	}
}

func TestRecord_CompletionLifecycle(t *testing.T) {
	rec := exercise.Record{ID: "e", Sets: 3, Reps: "10"}

	rec.MarkCompleted(0, "", "felt good")
	assert.True(t, rec.Completed)
	assert.Equal(t, 3, rec.ActualSets)
	assert.Equal(t, "10", rec.ActualReps)
	assert.Equal(t, "felt good", rec.Notes)

	rec.MarkCompleted(2, "8", "")
	assert.True(t, rec.Completed)
	assert.Equal(t, 2, rec.ActualSets)
	assert.Equal(t, "felt good", rec.Notes)

	rec.ResetProgress()
	assert.False(t, rec.Completed)
	assert.Zero(t, rec.ActualSets)
	assert.Empty(t, rec.ActualReps)
}

func TestProgram_Lookup(t *testing.T) {
	p := decodeProgram(t)

	rec, day := p.Exercise("e3")
	require.NotNil(t, rec)
	assert.Equal(t, "d1", day.ID)
	rec.MarkCompleted(1, "30s", "")
	assert.True(t, p.DailyWorkouts[0].Exercises[2].Completed)

	rec, day = p.Exercise("missing")
	assert.Nil(t, rec)
	assert.Nil(t, day)

	w, ok := p.Workout(4)
	require.True(t, ok)
	assert.Equal(t, "Cardio Blast", w.WorkoutName)
	_, ok = p.Workout(7)
	assert.False(t, ok)
}

func TestGroupByCategory(t *testing.T) {
	p := decodeProgram(t)

	groups := exercise.GroupByCategory(p.DailyWorkouts[0].Exercises)
	require.Len(t, groups, 4)
	assert.Equal(t, exercise.CategoryWarmup, groups[0].Key)
	assert.Equal(t, "e1", groups[0].Items[0].ID)
	assert.Equal(t, "e2", groups[1].Items[0].ID)
	assert.Empty(t, groups[2].Items)
	assert.Equal(t, "e3", groups[3].Items[0].ID)
}

func TestGroupWorkoutsByDay(t *testing.T) {
	p := decodeProgram(t)

	grouped := exercise.GroupWorkoutsByDay(p.DailyWorkouts)
	require.Len(t, grouped, 7)
	assert.Len(t, grouped[1], 1)
	assert.Empty(t, grouped[7])
}

func TestProgress(t *testing.T) {
	p := decodeProgram(t)

	day := exercise.DayProgress(p.DailyWorkouts[0])
	assert.Equal(t, 1, day.Completed)
	assert.Equal(t, 3, day.Total)

	// day 2 and 3 are rest days, day 4 has one open exercise
	week := exercise.WeekProgress(p.DailyWorkouts)
	assert.Equal(t, 1, week.Completed)
	assert.Equal(t, 4, week.Total)
	assert.Equal(t, 25.0, week.Percentage)

	days := exercise.WorkoutDayProgress(p.DailyWorkouts)
	assert.Equal(t, 1, days.Completed)
	assert.Equal(t, 2, days.Total)
	assert.Equal(t, 50, days.Rounded())

	assert.Equal(t, 0, exercise.WeekProgress(nil).Total)
	assert.Equal(t, 0.0, exercise.WorkoutDayProgress(nil).Percentage)
}

func TestWeekProgress_OrderIndependent(t *testing.T) {
	faker := gofakeit.New(7)
	workouts := make([]exercise.DailyWorkout, 0, 7)
	for day := 1; day <= 7; day++ {
		w := exercise.DailyWorkout{ID: faker.UUID(), DayNumber: day, WorkoutName: faker.Noun()}
		n := faker.Number(0, 6)
		for i := 0; i < n; i++ {
			w.Exercises = append(w.Exercises, exercise.Record{ID: faker.UUID(), Completed: faker.Bool()})
		}
		workouts = append(workouts, w)
	}

	want := exercise.WeekProgress(workouts)
	for i := 0; i < 5; i++ {
		shuffled := append([]exercise.DailyWorkout(nil), workouts...)
		faker.ShuffleAnySlice(shuffled)
		assert.Equal(t, want, exercise.WeekProgress(shuffled))
	}
}
