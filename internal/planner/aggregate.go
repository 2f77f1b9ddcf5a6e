package planner

import (
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/aggregate"
)

// SumMacros totals the nutrition of the given meals. Missing values count as 0.
func SumMacros(meals []MealRecord) Macros {
	var total Macros
	for _, m := range meals {
		total = total.Add(Macros{
			Calories: m.Calories,
			Protein:  m.Protein,
			Carbs:    m.Carbs,
			Fat:      m.Fat,
		})
	}
	return total
}

// GroupMealsByDay buckets meals into the 7 day slots of a plan week.
func GroupMealsByDay(meals []MealRecord) map[int][]MealRecord {
	return aggregate.GroupByDay(meals, func(m MealRecord) int { return m.DayNumber }, aggregate.DaysInWeek)
}

// GroupMealsByType buckets meals by meal type. A nil order uses DefaultMealTypeOrder.
func GroupMealsByType(meals []MealRecord, order []MealType) aggregate.Groups[MealType, MealRecord] {
	if order == nil {
		order = DefaultMealTypeOrder
	}
	return aggregate.GroupByType(meals, func(m MealRecord) MealType { return m.MealType }, order, MealTypeOther)
}

// DaySummary is the derived view of a single plan day.
type DaySummary struct {
	DayNumber int
	Meals     aggregate.Groups[MealType, MealRecord]
	Totals    Macros
	MealCount int
}

// DaySummaries returns one summary per day 1..7, in day order.
func DaySummaries(meals []MealRecord) []DaySummary {
	day2meals := GroupMealsByDay(meals)

	summaries := make([]DaySummary, 0, aggregate.DaysInWeek)
	for day := 1; day <= aggregate.DaysInWeek; day++ {
		dayMeals := day2meals[day]
		summaries = append(summaries, DaySummary{
			DayNumber: day,
			Meals:     GroupMealsByType(dayMeals, nil),
			Totals:    SumMacros(dayMeals),
			MealCount: len(dayMeals),
		})
	}
	return summaries
}
