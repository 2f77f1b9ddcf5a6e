package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/generation"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
)

// applyPreferences returns p updated with key=value pairs. List values are
// comma separated, an empty value clears the key.
func applyPreferences(p generation.Preferences, args []string) (generation.Preferences, error) {
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return p, usageError(fmt.Sprintf("expected key=value, got %q", arg))
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "goal":
			p.Goal = value
		case "level":
			p.FitnessLevel = value
		case "language":
			p.Language = value
		case "equipment":
			p.Equipment = splitList(value)
		case "muscles":
			p.TargetMuscleGroups = splitList(value)
		case "diet":
			p.DietaryRestrictions = splitList(value)
		case "allergies":
			p.Allergies = splitList(value)
		case "workout":
			switch wt := exercise.WorkoutType(strings.ToLower(value)); wt {
			case "", exercise.WorkoutTypeHome, exercise.WorkoutTypeGym:
				p.WorkoutType = wt
			default:
				return p, usageError("workout must be home or gym")
			}
		case "time":
			n, err := parseAmount(key, value)
			if err != nil {
				return p, err
			}
			p.AvailableTime = int(n)
		case "calories", "protein", "carbs", "fat":
			n, err := parseAmount(key, value)
			if err != nil {
				return p, err
			}
			p.TargetMacros = setMacro(p.TargetMacros, key, n)
		default:
			return p, usageError(fmt.Sprintf("unknown preference %q", key))
		}
	}
	return p, nil
}

func setMacro(m *planner.Macros, key string, v float64) *planner.Macros {
	out := planner.Macros{}
	if m != nil {
		out = *m
	}
	switch key {
	case "calories":
		out.Calories = v
	case "protein":
		out.Protein = v
	case "carbs":
		out.Carbs = v
	case "fat":
		out.Fat = v
	}
	if out == (planner.Macros{}) {
		return nil
	}
	return &out
}

func parseAmount(key, value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n < 0 {
		return 0, usageError(fmt.Sprintf("%s must be a positive number", key))
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
