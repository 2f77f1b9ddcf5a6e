package planner

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shared"
)

// MealType is the slot a meal occupies within a day.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
	MealTypeOther     MealType = "other"
)

// DefaultMealTypeOrder is the order meal types are rendered in.
var DefaultMealTypeOrder = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// ParseMealType normalizes a meal type coming from the remote store.
// Numbered snacks ("snack1", "snack2") are folded into snack.
func ParseMealType(s string) MealType {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == string(MealTypeBreakfast):
		return MealTypeBreakfast
	case s == string(MealTypeLunch):
		return MealTypeLunch
	case s == string(MealTypeDinner):
		return MealTypeDinner
	case strings.HasPrefix(s, string(MealTypeSnack)):
		return MealTypeSnack
	default:
		return MealType(s)
	}
}

// Ingredient is a single ingredient line of a meal.
// Quantity keeps the text the remote store sent, it is parsed during aggregation.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// MealRecord is a meal within a weekly plan.
type MealRecord struct {
	ID                string       `json:"id"`
	WeeklyPlanID      string       `json:"weekly_plan_id,omitempty"`
	DayNumber         int          `json:"day_number"`
	MealType          MealType     `json:"meal_type"`
	Name              string       `json:"name"`
	Calories          float64      `json:"calories"`
	Protein           float64      `json:"protein"`
	Carbs             float64      `json:"carbs"`
	Fat               float64      `json:"fat"`
	PrepTime          int          `json:"prep_time"`
	CookTime          int          `json:"cook_time"`
	Servings          int          `json:"servings"`
	Ingredients       []Ingredient `json:"ingredients"`
	Instructions      []string     `json:"instructions"`
	YouTubeSearchTerm string       `json:"youtube_search_term,omitempty"`
}

// rawMeal mirrors the loosely typed row shape of the daily_meals table.
type rawMeal struct {
	ID                shared.Text       `json:"id"`
	WeeklyPlanID      shared.Text       `json:"weekly_plan_id"`
	DayNumber         shared.Number     `json:"day_number"`
	MealType          string            `json:"meal_type"`
	Name              string            `json:"name"`
	Calories          shared.Number     `json:"calories"`
	Protein           shared.Number     `json:"protein"`
	Carbs             shared.Number     `json:"carbs"`
	Fat               shared.Number     `json:"fat"`
	PrepTime          shared.Number     `json:"prep_time"`
	CookTime          shared.Number     `json:"cook_time"`
	Servings          shared.Number     `json:"servings"`
	Ingredients       json.RawMessage   `json:"ingredients"`
	Instructions      shared.StringList `json:"instructions"`
	YouTubeSearchTerm string            `json:"youtube_search_term"`
}

// UnmarshalJSON maps a remote meal row to a MealRecord, defaulting anything malformed.
func (m *MealRecord) UnmarshalJSON(data []byte) error {
	var raw rawMeal
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = MealRecord{
		ID:                string(raw.ID),
		WeeklyPlanID:      string(raw.WeeklyPlanID),
		DayNumber:         raw.DayNumber.Int(),
		MealType:          ParseMealType(raw.MealType),
		Name:              raw.Name,
		Calories:          raw.Calories.Float(),
		Protein:           raw.Protein.Float(),
		Carbs:             raw.Carbs.Float(),
		Fat:               raw.Fat.Float(),
		PrepTime:          raw.PrepTime.Int(),
		CookTime:          raw.CookTime.Int(),
		Servings:          raw.Servings.Int(),
		Ingredients:       decodeIngredients(raw.Ingredients),
		Instructions:      []string(raw.Instructions),
		YouTubeSearchTerm: raw.YouTubeSearchTerm,
	}
	return nil
}

// decodeIngredients keeps only object entries that carry a name.
// The remote generators are not consistent about key casing.
func decodeIngredients(data json.RawMessage) []Ingredient {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	// Some rows store the ingredient list as a JSON encoded string.
	var encoded string
	if err := json.Unmarshal(data, &encoded); err == nil {
		data = []byte(encoded)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}

	ingredients := make([]Ingredient, 0, len(entries))
	for _, entry := range entries {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || fields == nil {
			continue
		}

		ing := Ingredient{
			Name:     textField(fields, "name", "Name"),
			Quantity: textField(fields, "quantity", "Quantity", "amount"),
			Unit:     textField(fields, "unit", "Unit"),
		}
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients
}

func textField(fields map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		v, ok := fields[k]
		if !ok {
			continue
		}
		var t shared.Text
		_ = t.UnmarshalJSON(v)
		if t != "" {
			return string(t)
		}
	}
	return ""
}

// TotalTime returns prep plus cook minutes.
func (m MealRecord) TotalTime() int {
	return m.PrepTime + m.CookTime
}

// Macros are nutrition totals.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Add returns the sum of two macro totals.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fat:      m.Fat + o.Fat,
	}
}

// WeeklyPlan is a 7-day collection of meals with aggregate totals.
type WeeklyPlan struct {
	ID            string       `json:"id"`
	UserID        string       `json:"user_id"`
	WeekStartDate string       `json:"week_start_date"`
	Meals         []MealRecord `json:"daily_meals"`
	Totals        Macros       `json:"-"`
}

// WeekStart parses WeekStartDate (YYYY-MM-DD) in loc.
func (p *WeeklyPlan) WeekStart(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(time.DateOnly, p.WeekStartDate, loc)
}

// Recompute refreshes the denormalized totals from the meals.
func (p *WeeklyPlan) Recompute() {
	p.Totals = SumMacros(p.Meals)
}

// MealByID finds a meal of the plan.
func (p *WeeklyPlan) MealByID(id string) (MealRecord, bool) {
	for _, m := range p.Meals {
		if m.ID == id {
			return m, true
		}
	}
	return MealRecord{}, false
}

// ReplaceMeal swaps the meal with id for its exchanged version, keeping its
// position. The new meal may carry a different id.
func (p *WeeklyPlan) ReplaceMeal(id string, meal MealRecord) bool {
	for i := range p.Meals {
		if p.Meals[i].ID == id {
			p.Meals[i] = meal
			p.Recompute()
			return true
		}
	}
	return false
}

// RemoveMeal drops the meal with id and refreshes the totals.
func (p *WeeklyPlan) RemoveMeal(id string) bool {
	for i := range p.Meals {
		if p.Meals[i].ID == id {
			p.Meals = append(p.Meals[:i], p.Meals[i+1:]...)
			p.Recompute()
			return true
		}
	}
	return false
}
