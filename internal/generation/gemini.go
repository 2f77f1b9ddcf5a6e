package generation

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/config"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var prompts = template.Must(
	template.New("prompts").
		Funcs(template.FuncMap{"join": func(s []string) string { return strings.Join(s, ", ") }}).
		ParseFS(promptFS, "prompts/*.tmpl"),
)

// GeminiInvoker answers the generation functions by prompting Gemini directly.
// Results are not persisted anywhere, they only live in the returned envelope.
type GeminiInvoker struct {
	client   *genai.Client
	generate func(ctx context.Context, prompt string) (string, error)
}

// NewGeminiInvoker creates a Gemini backed Invoker.
func NewGeminiInvoker(ctx context.Context, cfg *config.Config) (*GeminiInvoker, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.GeminiModel)
	model.ResponseMIMEType = "application/json"

	return &GeminiInvoker{
		client: client,
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := model.GenerateContent(ctx, genai.Text(prompt))
			if err != nil {
				return "", fmt.Errorf("failed to generate content: %w", err)
			}
			if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
				return "", fmt.Errorf("no content generated")
			}
			text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
			if !ok {
				return "", fmt.Errorf("generated content is not text")
			}
			return string(text), nil
		},
	}, nil
}

// Invoke renders the prompt of function, asks the model and wraps the parsed
// answer the same way the edge functions do.
func (g *GeminiInvoker) Invoke(ctx context.Context, function string, payload any) (json.RawMessage, error) {
	if function == FnSendShoppingListEmail {
		return nil, &Error{Function: function, Message: "not supported by the gemini backend"}
	}

	prompt, err := renderPrompt(function, payload)
	if err != nil {
		return nil, err
	}

	text, err := g.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	answer := []byte(stripCodeFence(text))

	var key string
	var result any
	switch req := payload.(type) {
	case MealPlanRequest:
		plan := &planner.WeeklyPlan{}
		key, result = "weekly_plan", plan
		if err = json.Unmarshal(answer, plan); err == nil {
			plan.ID = uuid.NewString()
			plan.UserID = req.UserID
			plan.WeekStartDate = req.WeekStartDate
			for i := range plan.Meals {
				plan.Meals[i].ID = uuid.NewString()
				plan.Meals[i].WeeklyPlanID = plan.ID
			}
		}
	case ExchangeMealRequest:
		meal := &planner.MealRecord{}
		key, result = "meal", meal
		if err = json.Unmarshal(answer, meal); err == nil {
			meal.ID = req.MealID
			if req.CurrentMeal != nil {
				meal.WeeklyPlanID = req.CurrentMeal.WeeklyPlanID
				meal.DayNumber = req.CurrentMeal.DayNumber
				meal.MealType = req.CurrentMeal.MealType
			}
		}
	case SnackRequest:
		snack := &planner.MealRecord{}
		key, result = "snack", snack
		if err = json.Unmarshal(answer, snack); err == nil {
			snack.ID = uuid.NewString()
			snack.WeeklyPlanID = req.WeeklyPlanID
			snack.DayNumber = req.DayNumber
			snack.MealType = planner.MealTypeSnack
		}
	case ExerciseProgramRequest:
		program := &exercise.Program{}
		key, result = "program", program
		if err = json.Unmarshal(answer, program); err == nil {
			program.ID = uuid.NewString()
			program.UserID = req.UserID
			program.WeekStartDate = req.WeekStartDate
			program.WorkoutType = req.Preferences.WorkoutType
			program.CurrentWeek = 1
			program.Status = "active"
			for i := range program.DailyWorkouts {
				day := &program.DailyWorkouts[i]
				day.ID = uuid.NewString()
				day.ProgramID = program.ID
				for j := range day.Exercises {
					day.Exercises[j].ID = uuid.NewString()
					day.Exercises[j].DailyWorkoutID = day.ID
				}
			}
		}
	case ExchangeExerciseRequest:
		rec := &exercise.Record{}
		key, result = "exercise", rec
		if err = json.Unmarshal(answer, rec); err == nil {
			rec.ID = req.ExerciseID
			if req.CurrentExercise != nil {
				rec.DailyWorkoutID = req.CurrentExercise.DailyWorkoutID
				rec.OrderNumber = req.CurrentExercise.OrderNumber
			}
		}
	default:
		return nil, fmt.Errorf("unsupported payload %T for %s", payload, function)
	}
	if err != nil {
		return nil, &Error{Function: function, Message: fmt.Sprintf("malformed model answer: %v", err)}
	}

	raw, err := json.Marshal(map[string]any{"success": true, key: result})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s result: %w", function, err)
	}
	return raw, nil
}

// Close closes the underlying Gemini client.
func (g *GeminiInvoker) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func renderPrompt(function string, payload any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, function+".tmpl", payload); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", function, err)
	}
	return buf.String(), nil
}

// stripCodeFence removes a ```json fence some models wrap their answer in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
