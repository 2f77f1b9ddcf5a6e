package telegram

import (
	"fmt"
	"strings"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/aggregate"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/app"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/generation"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/session"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shopping"
)

const helpText = `🏋️ *Body Wise*

/login <access-token> - link this chat to your account
/prefs \[key=value ...] - show or change generation preferences

*Meals*
/week \[offset] - the meal plan
/day <1-7> \[offset] - one day in detail
/regen \[offset] - generate a new meal plan
/exchange <meal-id> \[reason] - swap a meal
/snack <day> \[offset] - add a snack to a day
/remove <meal-id> \[offset] - drop a meal

*Shopping*
/shopping \[offset] - the shopping list
/check <n> \[offset] - tick an item
/export \[offset] - printable list
/email <address> \[offset] - mail the list

*Workouts*
/workout \[offset] - the exercise program
/program \[offset] - generate a new program
/done <exercise-id> \[sets] \[reps] - complete an exercise
/reset <exercise-id> - undo a completion
/swap <exercise-id> \[reason] - swap an exercise
/timer start|pause|resume|reset|stop|status
/rest <seconds> - start a rest countdown
/skip - skip the rest

/cancel - drop pending generations
/logout`

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escape makes user and model supplied text safe for Markdown messages.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func formatMacros(m planner.Macros) string {
	return fmt.Sprintf("%.0f kcal · P %.0fg · C %.0fg · F %.0fg", m.Calories, m.Protein, m.Carbs, m.Fat)
}

func formatProgress(p aggregate.Progress) string {
	return fmt.Sprintf("%d/%d (%d%%)", p.Completed, p.Total, p.Rounded())
}

func formatWeek(v *app.WeekView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 *Meal plan* %s\n", v.Range)

	for i, day := range v.Days {
		sum := v.Summaries[i]
		fmt.Fprintf(&sb, "\n*%d. %s %s*", day.DayNumber, day.ShortName, day.Date.Format("Jan 2"))
		if day.DayNumber == v.Today {
			sb.WriteString(" (today)")
		}
		sb.WriteString("\n")

		if sum.MealCount == 0 {
			sb.WriteString("_No meals_\n")
			continue
		}
		for _, group := range sum.Meals {
			for _, meal := range group.Items {
				fmt.Fprintf(&sb, "• %s: %s (%.0f kcal) `%s`\n", group.Key, escape(meal.Name), meal.Calories, meal.ID)
			}
		}
		fmt.Fprintf(&sb, "_%s_\n", formatMacros(sum.Totals))
	}

	fmt.Fprintf(&sb, "\n📊 *Week:* %s", formatMacros(planner.SumMacros(v.Plan.Meals)))
	return sb.String()
}

func formatDay(v *app.DayView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🍽 *%s %s* (%s)\n", v.Day.ShortName, v.Day.Date.Format("Jan 2"), v.Range)

	if v.Summary.MealCount == 0 {
		sb.WriteString("\n_No meals planned for this day._")
		return sb.String()
	}

	for _, group := range v.Summary.Meals {
		for _, meal := range group.Items {
			sb.WriteString("\n")
			sb.WriteString(formatMeal(meal))
		}
	}
	fmt.Fprintf(&sb, "\n📊 *Day:* %s", formatMacros(v.Summary.Totals))
	return sb.String()
}

func formatMeal(meal planner.MealRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s* · %s `%s`\n", meal.MealType, escape(meal.Name), meal.ID)
	sb.WriteString(formatMacros(planner.Macros{
		Calories: meal.Calories,
		Protein:  meal.Protein,
		Carbs:    meal.Carbs,
		Fat:      meal.Fat,
	}))
	if total := meal.TotalTime(); total > 0 {
		fmt.Fprintf(&sb, " · ⏱ %d min", total)
	}
	sb.WriteString("\n")

	if len(meal.Ingredients) > 0 {
		parts := make([]string, 0, len(meal.Ingredients))
		for _, ing := range meal.Ingredients {
			parts = append(parts, strings.TrimSpace(escape(ing.Name+" "+ing.Quantity+" "+ing.Unit)))
		}
		fmt.Fprintf(&sb, "_%s_\n", strings.Join(parts, ", "))
	}
	return sb.String()
}

func formatShopping(v *app.ShoppingView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🛒 *Shopping list* %s\n", v.Range)

	if len(v.Items) == 0 {
		sb.WriteString("\n_Nothing to buy this week._")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Checked %s\n", formatProgress(v.Progress))

	var category shopping.Category
	for i, item := range v.Items {
		if item.Category != category {
			category = item.Category
			fmt.Fprintf(&sb, "\n*%s*\n", category)
		}
		mark := "⬜"
		if v.Checklist.IsChecked(item.Key) {
			mark = "✅"
		}
		fmt.Fprintf(&sb, "%d. %s %s %s %s\n", i+1, mark, escape(item.Name), shopping.FormatQuantity(item.Quantity), escape(item.Unit))
	}
	sb.WriteString("\nTick items with /check <n>.")
	return sb.String()
}

func formatWorkout(v *app.WorkoutView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🏋️ *%s* %s\n", escape(orDefault(v.Program.ProgramName, "Workout")), v.Range)
	fmt.Fprintf(&sb, "Exercises %s · days %s\n", formatProgress(v.Progress), formatProgress(v.DaysProgress))

	for _, wd := range v.Days {
		fmt.Fprintf(&sb, "\n*%d. %s %s*", wd.Day.DayNumber, wd.Day.ShortName, wd.Day.Date.Format("Jan 2"))
		if wd.Day.DayNumber == v.Today {
			sb.WriteString(" (today)")
		}

		switch {
		case wd.Workout == nil:
			sb.WriteString("\n_Nothing planned_\n")
			continue
		case wd.Workout.RestDay():
			sb.WriteString("\n😴 Rest day\n")
			continue
		}

		if wd.Workout.WorkoutName != "" {
			fmt.Fprintf(&sb, " %s", escape(wd.Workout.WorkoutName))
		}
		if wd.Workout.Completed {
			sb.WriteString(" ✅")
		}
		fmt.Fprintf(&sb, "\n%s\n", formatProgress(wd.Progress))

		for _, group := range wd.Groups.NonEmpty() {
			fmt.Fprintf(&sb, "_%s_\n", group.Key)
			for _, rec := range group.Items {
				sb.WriteString(formatExercise(rec))
			}
		}
	}
	return sb.String()
}

func formatExercise(rec exercise.Record) string {
	mark := "⬜"
	sets, reps := rec.Sets, rec.Reps
	if rec.Completed {
		mark = "✅"
		sets, reps = rec.ActualSets, rec.ActualReps
	}
	line := fmt.Sprintf("%s %s %d x %s", mark, escape(rec.Name), sets, escape(reps))
	if rec.RestSeconds > 0 && !rec.Completed {
		line += fmt.Sprintf(", rest %ds", rec.RestSeconds)
	}
	return line + fmt.Sprintf(" `%s`\n", rec.ID)
}

func formatTimer(state session.State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⏱ %s · %s", state.Status, formatClock(state.Elapsed))
	if state.ActiveExerciseID != "" {
		fmt.Fprintf(&sb, "\nExercise `%s`, set %d", state.ActiveExerciseID, state.CurrentSet)
	}
	if state.Resting {
		fmt.Fprintf(&sb, "\n😮‍💨 Resting, %ds left", state.RestRemaining)
	}
	return sb.String()
}

func formatClock(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func formatPreferences(p generation.Preferences) string {
	var lines []string
	add := func(key, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("• %s: %s", key, escape(value)))
		}
	}
	add("goal", p.Goal)
	add("level", p.FitnessLevel)
	num := func(key string, v float64) {
		if v > 0 {
			add(key, fmt.Sprintf("%.0f", v))
		}
	}
	num("time", float64(p.AvailableTime))
	add("equipment", strings.Join(p.Equipment, ", "))
	add("muscles", strings.Join(p.TargetMuscleGroups, ", "))
	add("diet", strings.Join(p.DietaryRestrictions, ", "))
	add("allergies", strings.Join(p.Allergies, ", "))
	if m := p.TargetMacros; m != nil {
		num("calories", m.Calories)
		num("protein", m.Protein)
		num("carbs", m.Carbs)
		num("fat", m.Fat)
	}
	add("workout", string(p.WorkoutType))
	add("language", p.Language)

	if len(lines) == 0 {
		return "⚙️ *Preferences*\n_None set._ Try /prefs goal=lose\\_weight calories=1800"
	}
	return "⚙️ *Preferences*\n" + strings.Join(lines, "\n")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
