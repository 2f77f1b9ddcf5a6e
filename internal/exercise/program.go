package exercise

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shared"
)

// Category is the phase of a workout an exercise belongs to.
type Category string

const (
	CategoryWarmup   Category = "warmup"
	CategoryStrength Category = "strength"
	CategoryCardio   Category = "cardio"
	CategoryCooldown Category = "cooldown"
)

// CategoryOrder is the order exercises are rendered in within a day.
var CategoryOrder = []Category{CategoryWarmup, CategoryStrength, CategoryCardio, CategoryCooldown}

func (c Category) known() bool {
	switch c {
	case CategoryWarmup, CategoryStrength, CategoryCardio, CategoryCooldown:
		return true
	}
	return false
}

// WorkoutType is where a program is meant to be trained.
type WorkoutType string

const (
	WorkoutTypeHome WorkoutType = "home"
	WorkoutTypeGym  WorkoutType = "gym"
)

// Record is a single exercise of a daily workout.
type Record struct {
	ID             string   `json:"id"`
	DailyWorkoutID string   `json:"daily_workout_id,omitempty"`
	Name           string   `json:"name"`
	Sets           int      `json:"sets"`
	Reps           string   `json:"reps"`
	RestSeconds    int      `json:"rest_seconds"`
	MuscleGroups   []string `json:"muscle_groups"`
	Instructions   string   `json:"instructions"`
	Equipment      string   `json:"equipment"`
	Difficulty     string   `json:"difficulty"`
	Completed      bool     `json:"completed"`
	ActualSets     int      `json:"actual_sets"`
	ActualReps     string   `json:"actual_reps"`
	Notes          string   `json:"notes"`
	OrderNumber    int      `json:"order_number"`
	Category       Category `json:"category,omitempty"`
}

type rawRecord struct {
	ID             shared.Text       `json:"id"`
	DailyWorkoutID shared.Text       `json:"daily_workout_id"`
	Name           shared.Text       `json:"name"`
	Sets           shared.Number     `json:"sets"`
	Reps           shared.Text       `json:"reps"`
	RestSeconds    shared.Number     `json:"rest_seconds"`
	MuscleGroups   shared.StringList `json:"muscle_groups"`
	Instructions   shared.Text       `json:"instructions"`
	Equipment      shared.Text       `json:"equipment"`
	Difficulty     shared.Text       `json:"difficulty"`
	Completed      *bool             `json:"completed"`
	ActualSets     shared.Number     `json:"actual_sets"`
	ActualReps     shared.Text       `json:"actual_reps"`
	Notes          shared.Text       `json:"notes"`
	OrderNumber    shared.Number     `json:"order_number"`
	Category       shared.Text       `json:"category"`
}

// UnmarshalJSON maps a remote exercise row, defaulting anything malformed.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = Record{
		ID:             string(raw.ID),
		DailyWorkoutID: string(raw.DailyWorkoutID),
		Name:           string(raw.Name),
		Sets:           raw.Sets.Int(),
		Reps:           string(raw.Reps),
		RestSeconds:    raw.RestSeconds.Int(),
		MuscleGroups:   []string(raw.MuscleGroups),
		Instructions:   string(raw.Instructions),
		Equipment:      string(raw.Equipment),
		Difficulty:     string(raw.Difficulty),
		Completed:      raw.Completed != nil && *raw.Completed,
		ActualSets:     raw.ActualSets.Int(),
		ActualReps:     string(raw.ActualReps),
		Notes:          string(raw.Notes),
		OrderNumber:    raw.OrderNumber.Int(),
		Category:       Category(strings.ToLower(strings.TrimSpace(string(raw.Category)))),
	}
	return nil
}

var (
	warmupPattern   = regexp.MustCompile(`(?i)warm[\s-]?up|activation|mobility|jumping jacks|arm circles`)
	cooldownPattern = regexp.MustCompile(`(?i)cool[\s-]?down|stretch|yoga|foam roll|breathing`)
	cardioPattern   = regexp.MustCompile(`(?i)cardio|\brun|\bjog|sprint|cycling|\bbike|rowing|jump rope|burpee|hiit|mountain climber`)
)

// EffectiveCategory returns Category when the store set a known one and
// otherwise infers it from the name and muscle groups.
func (r Record) EffectiveCategory() Category {
	if r.Category.known() {
		return r.Category
	}

	text := r.Name + " " + strings.Join(r.MuscleGroups, " ")
	switch {
	case warmupPattern.MatchString(text):
		return CategoryWarmup
	case cooldownPattern.MatchString(text):
		return CategoryCooldown
	case cardioPattern.MatchString(text):
		return CategoryCardio
	default:
		return CategoryStrength
	}
}

// MarkCompleted records the performed sets and reps. Empty values fall back to the prescription.
func (r *Record) MarkCompleted(actualSets int, actualReps, notes string) {
	if actualSets <= 0 {
		actualSets = r.Sets
	}
	if strings.TrimSpace(actualReps) == "" {
		actualReps = r.Reps
	}
	r.Completed = true
	r.ActualSets = actualSets
	r.ActualReps = actualReps
	if notes != "" {
		r.Notes = notes
	}
}

// ResetProgress is the only way back to not completed.
func (r *Record) ResetProgress() {
	r.Completed = false
	r.ActualSets = 0
	r.ActualReps = ""
}

// DailyWorkout is one day of an exercise program.
type DailyWorkout struct {
	ID                string   `json:"id"`
	ProgramID         string   `json:"weekly_program_id,omitempty"`
	DayNumber         int      `json:"day_number"`
	WorkoutName       string   `json:"workout_name"`
	IsRestDay         bool     `json:"is_rest_day"`
	Completed         bool     `json:"completed"`
	EstimatedDuration int      `json:"estimated_duration"`
	EstimatedCalories int      `json:"estimated_calories"`
	MuscleGroups      []string `json:"muscle_groups"`
	Exercises         []Record `json:"exercises"`
}

type rawDailyWorkout struct {
	ID                shared.Text       `json:"id"`
	ProgramID         shared.Text       `json:"weekly_program_id"`
	DayNumber         shared.Number     `json:"day_number"`
	WorkoutName       shared.Text       `json:"workout_name"`
	IsRestDay         *bool             `json:"is_rest_day"`
	Completed         *bool             `json:"completed"`
	EstimatedDuration shared.Number     `json:"estimated_duration"`
	EstimatedCalories shared.Number     `json:"estimated_calories"`
	MuscleGroups      shared.StringList `json:"muscle_groups"`
	Exercises         []json.RawMessage `json:"exercises"`
}

// UnmarshalJSON maps a remote daily workout row. Exercise entries that fail to
// decode are dropped and the rest are kept in order_number order.
func (w *DailyWorkout) UnmarshalJSON(data []byte) error {
	var raw rawDailyWorkout
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	exercises := make([]Record, 0, len(raw.Exercises))
	for _, entry := range raw.Exercises {
		var rec Record
		if err := json.Unmarshal(entry, &rec); err != nil {
			continue
		}
		exercises = append(exercises, rec)
	}
	sort.SliceStable(exercises, func(i, j int) bool {
		return exercises[i].OrderNumber < exercises[j].OrderNumber
	})

	*w = DailyWorkout{
		ID:                string(raw.ID),
		ProgramID:         string(raw.ProgramID),
		DayNumber:         raw.DayNumber.Int(),
		WorkoutName:       string(raw.WorkoutName),
		IsRestDay:         raw.IsRestDay != nil && *raw.IsRestDay,
		Completed:         raw.Completed != nil && *raw.Completed,
		EstimatedDuration: raw.EstimatedDuration.Int(),
		EstimatedCalories: raw.EstimatedCalories.Int(),
		MuscleGroups:      []string(raw.MuscleGroups),
		Exercises:         exercises,
	}
	return nil
}

var restDayPattern = regexp.MustCompile(`(?i)\brest\b|recovery|off day`)

// RestDay reports whether the day has nothing to train.
func (w DailyWorkout) RestDay() bool {
	return w.IsRestDay || len(w.Exercises) == 0 || restDayPattern.MatchString(w.WorkoutName)
}

// ExerciseByID returns a pointer into the workout so callers can mutate it.
func (w *DailyWorkout) ExerciseByID(id string) *Record {
	for i := range w.Exercises {
		if w.Exercises[i].ID == id {
			return &w.Exercises[i]
		}
	}
	return nil
}

// Program is a weekly exercise program.
type Program struct {
	ID              string         `json:"id"`
	UserID          string         `json:"user_id"`
	ProgramName     string         `json:"program_name"`
	DifficultyLevel string         `json:"difficulty_level"`
	WorkoutType     WorkoutType    `json:"workout_type"`
	CurrentWeek     int            `json:"current_week"`
	WeekStartDate   string         `json:"week_start_date"`
	Status          string         `json:"status"`
	DailyWorkouts   []DailyWorkout `json:"daily_workouts"`
}

// WeekStart parses WeekStartDate (YYYY-MM-DD) in loc.
func (p *Program) WeekStart(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(time.DateOnly, p.WeekStartDate, loc)
}

// Exercise finds an exercise anywhere in the program.
func (p *Program) Exercise(id string) (*Record, *DailyWorkout) {
	for i := range p.DailyWorkouts {
		if rec := p.DailyWorkouts[i].ExerciseByID(id); rec != nil {
			return rec, &p.DailyWorkouts[i]
		}
	}
	return nil, nil
}
