package exercise

import (
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/aggregate"
)

// GroupWorkoutsByDay buckets workouts into the 7 day slots of a program week.
func GroupWorkoutsByDay(workouts []DailyWorkout) map[int][]DailyWorkout {
	return aggregate.GroupByDay(workouts, func(w DailyWorkout) int { return w.DayNumber }, aggregate.DaysInWeek)
}

// GroupByCategory buckets exercises warmup, strength, cardio, cooldown.
func GroupByCategory(exercises []Record) aggregate.Groups[Category, Record] {
	return aggregate.GroupByType(exercises, Record.EffectiveCategory, CategoryOrder, CategoryStrength)
}

func completed(r Record) bool { return r.Completed }

// DayProgress is the share of completed exercises of one workout.
func DayProgress(w DailyWorkout) aggregate.Progress {
	return aggregate.ComputeProgress(w.Exercises, completed)
}

// WeekProgress is the share of completed exercises over all training days.
// Rest days do not count.
func WeekProgress(workouts []DailyWorkout) aggregate.Progress {
	var p aggregate.Progress
	for _, w := range workouts {
		if w.RestDay() {
			continue
		}
		p = p.Add(DayProgress(w))
	}
	return p
}

// WorkoutDayProgress counts finished training days. A day is finished when it
// is flagged completed or when every exercise is.
func WorkoutDayProgress(workouts []DailyWorkout) aggregate.Progress {
	done, total := 0, 0
	for _, w := range workouts {
		if w.RestDay() {
			continue
		}
		total++
		if w.Completed || DayProgress(w).Completed == len(w.Exercises) {
			done++
		}
	}
	return aggregate.NewProgress(done, total)
}
