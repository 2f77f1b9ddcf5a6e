package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/app"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/config"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/database"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/exercise"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/generation"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/metrics"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/planner"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/request"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/session"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/shopping"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/supabase"
	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/week"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	chatID  int64 = 42
	adminID int64 = 99
)

// Wednesday: meal week starts Saturday Jan 6, exercise week Monday Jan 8.
var testNow = time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) HandleUpdate(r *http.Request) (*tgbotapi.Update, error) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		return nil, err
	}
	return &update, nil
}

func (f *fakeAPI) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeAPI) last() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type fakeStore struct {
	plan    *planner.WeeklyPlan
	program *exercise.Program
}

func (f *fakeStore) WeeklyPlan(_ context.Context, _ string, weekStart time.Time) (*planner.WeeklyPlan, error) {
	if weekStart.Format(time.DateOnly) != f.plan.WeekStartDate {
		return nil, nil
	}
	return f.plan, nil
}

func (f *fakeStore) Program(_ context.Context, _ string, weekStart time.Time) (*exercise.Program, error) {
	if weekStart.Format(time.DateOnly) != f.program.WeekStartDate {
		return nil, nil
	}
	return f.program, nil
}

func (f *fakeStore) UpdateExercise(context.Context, exercise.Record) error { return nil }

func (f *fakeStore) UpdateWorkoutCompleted(context.Context, string, bool) error { return nil }

func (f *fakeStore) DeleteMeal(context.Context, string) error { return nil }

type fakeGenerator struct {
	mu    sync.Mutex
	plans []generation.MealPlanRequest
}

func (f *fakeGenerator) GenerateMealPlan(_ context.Context, req generation.MealPlanRequest) (*planner.WeeklyPlan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plans = append(f.plans, req)
	return &planner.WeeklyPlan{
		ID:            "plan-2",
		UserID:        req.UserID,
		WeekStartDate: req.WeekStartDate,
		Meals: []planner.MealRecord{
			{ID: "n1", DayNumber: 1, MealType: planner.MealTypeDinner, Name: "Lentil Soup", Calories: 500},
		},
	}, nil
}

func (f *fakeGenerator) ExchangeMeal(context.Context, generation.ExchangeMealRequest) (*planner.MealRecord, error) {
	return &planner.MealRecord{ID: "m9", Name: "Tuna Wrap", Calories: 450}, nil
}

func (f *fakeGenerator) GenerateSnack(context.Context, generation.SnackRequest) (*planner.MealRecord, error) {
	return nil, &generation.Error{Function: generation.FnGenerateSnack, Message: "quota exceeded"}
}

func (f *fakeGenerator) GenerateExerciseProgram(context.Context, generation.ExerciseProgramRequest) (*exercise.Program, error) {
	return nil, nil
}

func (f *fakeGenerator) ExchangeExercise(context.Context, generation.ExchangeExerciseRequest) (*exercise.Record, error) {
	return &exercise.Record{Name: "Push Up", Sets: 3, Reps: "15"}, nil
}

func (f *fakeGenerator) SendShoppingListEmail(context.Context, generation.ShoppingEmailRequest) error {
	return nil
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyUserToken(token string) (*supabase.UserClaims, error) {
	if token != "good-token" {
		return nil, supabase.ErrInvalidToken
	}
	return &supabase.UserClaims{
		Email: "sam@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, nil
}

func testPlan() *planner.WeeklyPlan {
	plan := &planner.WeeklyPlan{
		ID:            "plan-1",
		UserID:        "user-1",
		WeekStartDate: "2024-01-06",
		Meals: []planner.MealRecord{
			{ID: "m1", DayNumber: 1, MealType: planner.MealTypeBreakfast, Name: "Chicken Omelette", Calories: 400,
				Ingredients: []planner.Ingredient{{Name: "Chicken Breast", Quantity: "200", Unit: "g"}}},
			{ID: "m2", DayNumber: 1, MealType: planner.MealTypeLunch, Name: "Rice Bowl", Calories: 550,
				Ingredients: []planner.Ingredient{{Name: "Rice", Quantity: "1", Unit: "cup"}}},
		},
	}
	plan.Recompute()
	return plan
}

func testProgram() *exercise.Program {
	return &exercise.Program{
		ID:            "prog-1",
		UserID:        "user-1",
		ProgramName:   "Strength Basics",
		WeekStartDate: "2024-01-08",
		DailyWorkouts: []exercise.DailyWorkout{
			{ID: "d1", DayNumber: 1, WorkoutName: "Push", Exercises: []exercise.Record{
				{ID: "e1", Name: "Arm Circles", Sets: 1, Reps: "30s", OrderNumber: 1},
				{ID: "e2", Name: "Bench Press", Sets: 3, Reps: "10", RestSeconds: 90, OrderNumber: 2},
			}},
			{ID: "d2", DayNumber: 2, WorkoutName: "Rest", IsRestDay: true},
		},
	}
}

type testBot struct {
	*Bot
	api       *fakeAPI
	generator *fakeGenerator
	metrics   *metrics.Manager
}

func newTestBot(t *testing.T) testBot {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "bot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := func() time.Time { return testNow }
	generator := &fakeGenerator{}
	manager := metrics.NewTestManager()
	svc := app.New(app.Deps{
		Store:        &fakeStore{plan: testPlan(), program: testProgram()},
		Generator:    generator,
		Checklists:   shopping.NewRepository(db.SQL),
		Metrics:      manager,
		MealWeek:     week.Navigator{WeekStartsOn: week.MealPlanStart, Now: clock},
		ExerciseWeek: week.Navigator{WeekStartsOn: week.ExerciseStart, Now: clock},
	})

	api := &fakeAPI{}
	cfg := &config.Config{
		TelegramAllowedUserIDs: []int64{chatID},
		AdminTelegramID:        adminID,
	}
	bot := newBot(api, cfg, Deps{
		Service:  svc,
		Auth:     fakeVerifier{},
		Sessions: NewSessionRepository(db.SQL),
		Metrics:  manager,
		DataDir:  t.TempDir(),
	})
	t.Cleanup(func() { bot.Close() })

	return testBot{Bot: bot, api: api, generator: generator, metrics: manager}
}

func commandMessage(from int64, text string) *tgbotapi.Message {
	cmd, _, _ := strings.Cut(text, " ")
	return &tgbotapi.Message{
		MessageID: 7,
		From:      &tgbotapi.User{ID: from},
		Chat:      &tgbotapi.Chat{ID: from},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}
}

// run processes a command from the test chat and returns the last reply.
func (tb testBot) run(text string) string {
	tb.processMessage(commandMessage(chatID, text))
	return tb.api.last()
}

func (tb testBot) login(t *testing.T) {
	t.Helper()
	require.Contains(t, tb.run("/login good-token"), "Logged in as sam@example.com")
}

func TestBot_RequiresLogin(t *testing.T) {
	tb := newTestBot(t)

	assert.Contains(t, tb.run("/week"), "/login")
	assert.Contains(t, tb.run("/login"), "usage: /login")
	assert.Contains(t, tb.run("/login bad-token"), "not valid")
	assert.Contains(t, tb.run("/week"), "/login")
}

func TestBot_LoginDeletesTokenMessage(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	require.NotEmpty(t, tb.api.requests)
	del, ok := tb.api.requests[0].(tgbotapi.DeleteMessageConfig)
	require.True(t, ok)
	assert.Equal(t, 7, del.MessageID)
}

func TestBot_Logout(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)
	tb.run("/timer start")

	assert.Contains(t, tb.run("/logout"), "Logged out")
	assert.Equal(t, 0, tb.timers.Len())
	assert.Contains(t, tb.run("/week"), "/login")
}

func TestBot_WeekAndDay(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	text := tb.run("/week")
	assert.Contains(t, text, "Jan 6 - Jan 12, 2024")
	assert.Contains(t, text, "• breakfast: Chicken Omelette (400 kcal) `m1`")
	assert.Contains(t, text, "*5. Wed Jan 10* (today)")
	assert.Contains(t, text, "950 kcal")

	text = tb.run("/day 1")
	assert.Contains(t, text, "*Sat Jan 6*")
	assert.Contains(t, text, "_Chicken Breast 200 g_")

	assert.Contains(t, tb.run("/day 8"), "not found")
	assert.Contains(t, tb.run("/day monday"), "day must be a number")
	assert.Contains(t, tb.run("/week 1"), "Nothing planned", "the fake store has no plan for other weeks")
}

func TestBot_ShoppingChecklist(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	text := tb.run("/shopping")
	assert.Contains(t, text, "Checked 0/2 (0%)")
	assert.Contains(t, text, "1. ⬜ Chicken Breast 200 g")

	assert.Contains(t, tb.run("/check 1"), "✅ Chicken Breast checked.")
	assert.Contains(t, tb.run("/shopping"), "1. ✅ Chicken Breast")
	assert.Contains(t, tb.run("/check 1"), "⬜ Chicken Breast unchecked.")
	assert.Contains(t, tb.run("/check 9"), "not found")
}

func TestBot_Export(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	tb.run("/export")

	var doc *tgbotapi.DocumentConfig
	for _, c := range tb.api.sent {
		if d, ok := c.(tgbotapi.DocumentConfig); ok {
			doc = &d
		}
	}
	require.NotNil(t, doc)
	file, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, "shopping-list-2024-01-06.html", file.Name)
	assert.Contains(t, string(file.Bytes), "Chicken Breast")
	assert.Contains(t, tb.api.last(), "Chicken Breast")
}

func TestBot_Email(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	assert.Contains(t, tb.run("/email sam@example.com"), "sent to sam@example.com")
	assert.Contains(t, tb.run("/email nobody"), "does not look like an email address")
}

func TestBot_WorkoutAndCompletion(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	text := tb.run("/workout")
	assert.Contains(t, text, "*Strength Basics* Jan 8 - Jan 14, 2024")
	assert.Contains(t, text, "⬜ Bench Press 3 x 10, rest 90s `e2`")
	assert.Contains(t, text, "😴 Rest day")

	tb.run("/timer start e2")
	assert.Contains(t, tb.run("/done e2 4 8"), "Bench Press done: 4 x 8")
	timer, ok := tb.timers.Lookup(chatID)
	require.True(t, ok)
	assert.Empty(t, timer.State().ActiveExerciseID, "completing the active exercise clears it")

	assert.Contains(t, tb.run("/workout"), "✅ Bench Press 4 x 8")
	assert.Contains(t, tb.run("/reset e2"), "Bench Press is open again")
	assert.Contains(t, tb.run("/done nope"), "not found")
}

func TestBot_Timer(t *testing.T) {
	tb := newTestBot(t)

	assert.Contains(t, tb.run("/timer"), "No timer running")
	assert.Contains(t, tb.run("/timer pause"), "no timer yet")

	assert.Contains(t, tb.run("/timer start e1"), "running")
	assert.Equal(t, 1, tb.timers.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(tb.metrics.GaugeActiveTimers))

	assert.Contains(t, tb.run("/timer pause"), "paused")
	assert.Contains(t, tb.run("/timer resume"), "running")
	assert.Contains(t, tb.run("/timer reset"), "idle · 00:00")
	assert.Contains(t, tb.run("/timer bogus"), "usage: /timer")
	assert.Contains(t, tb.run("/timer stop"), "Stopped at")
	assert.Equal(t, 0, tb.timers.Len())
	assert.Eventually(t, func() bool {
		return tb.timers.Active() == 0 && testutil.ToFloat64(tb.metrics.GaugeActiveTimers) == 0
	}, time.Second, 5*time.Millisecond)
}

func TestBot_RestAndSkip(t *testing.T) {
	tb := newTestBot(t)

	assert.Contains(t, tb.run("/rest"), "usage: /rest")
	assert.Contains(t, tb.run("/skip"), "Not resting")
	assert.Contains(t, tb.run("/rest 30"), "Resting 30s.")

	tb.run("/timer start e2")
	assert.Contains(t, tb.run("/rest 60"), "set 2 is next")
	assert.Contains(t, tb.run("/skip"), "Rest skipped")
	assert.Contains(t, tb.run("/skip"), "Not resting")
}

func TestBot_RestOverIsPushed(t *testing.T) {
	tb := newTestBot(t)
	tb.notifyRestOver(chatID, "e2")
	assert.Equal(t, "⏰ Rest is over, next set of `e2`!", tb.api.last())
}

func TestBot_PreferencesFlowIntoGeneration(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	text := tb.run("/prefs calories=1800 diet=vegan,halal workout=gym")
	assert.Contains(t, text, "• calories: 1800")
	assert.Contains(t, text, "• diet: vegan, halal")
	assert.Contains(t, tb.run("/prefs bogus=1"), "unknown preference")

	// A new login keeps them.
	tb.login(t)
	assert.Contains(t, tb.run("/prefs"), "• workout: gym")

	tb.run("/regen 1")
	require.Len(t, tb.generator.plans, 1)
	req := tb.generator.plans[0]
	assert.Equal(t, "2024-01-13", req.WeekStartDate)
	require.NotNil(t, req.Preferences.TargetMacros)
	assert.Equal(t, 1800.0, req.Preferences.TargetMacros.Calories)
	assert.Equal(t, []string{"vegan", "halal"}, req.Preferences.DietaryRestrictions)
}

func TestBot_RegenAsksBeforeReplacing(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	tb.run("/regen")
	assert.Empty(t, tb.generator.plans)

	var prompt tgbotapi.MessageConfig
	for _, c := range tb.api.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok && m.ReplyMarkup != nil {
			prompt = m
		}
	}
	require.Contains(t, prompt.Text, "already exists")
	keyboard, ok := prompt.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotNil(t, keyboard.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "regen|plan|0", *keyboard.InlineKeyboard[0][0].CallbackData)

	tb.handleCallbackQuery(&tgbotapi.CallbackQuery{
		ID:      "cb-1",
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{MessageID: 3, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    "regen|plan|0",
	})
	require.Len(t, tb.generator.plans, 1)
	assert.Contains(t, tb.api.last(), "Lentil Soup")

	tb.handleCallbackQuery(&tgbotapi.CallbackQuery{
		ID:      "cb-2",
		From:    &tgbotapi.User{ID: chatID},
		Message: &tgbotapi.Message{MessageID: 3, Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    "keep",
	})
	assert.Equal(t, "👌 Kept as it is.", tb.api.last())
	assert.Len(t, tb.generator.plans, 1)
}

func TestBot_ExchangeSnackSwap(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	text := tb.run("/exchange m2 too heavy")
	assert.Contains(t, text, "Meal exchanged")
	assert.Contains(t, text, "Tuna Wrap")
	assert.Contains(t, tb.run("/week"), "Tuna Wrap")

	assert.Equal(t, "❌ *Generation failed:* quota exceeded", tb.run("/snack 2"))

	text = tb.run("/swap e2")
	assert.Contains(t, text, "Exercise swapped")
	assert.Contains(t, text, "Push Up 3 x 15")
	assert.Contains(t, text, "`e2`", "the swapped exercise keeps its id")
}

func TestBot_RemoveMeal(t *testing.T) {
	tb := newTestBot(t)
	tb.login(t)

	assert.Contains(t, tb.run("/remove"), "usage: /remove")
	assert.Equal(t, "🗑 Rice Bowl removed.", tb.run("/remove m2"))

	week := tb.run("/week")
	assert.NotContains(t, week, "Rice Bowl")
	assert.Contains(t, week, "Chicken Omelette")
	assert.Contains(t, tb.run("/remove m2"), "not found")
}

func TestBot_Cancel(t *testing.T) {
	tb := newTestBot(t)
	assert.Contains(t, tb.run("/cancel"), "/login")

	tb.login(t)
	assert.Contains(t, tb.run("/cancel"), "cancelled")
}

func TestBot_MetricsIsAdminOnly(t *testing.T) {
	tb := newTestBot(t)

	assert.Contains(t, tb.run("/metrics"), "Admin only")

	tb.processMessage(commandMessage(adminID, "/metrics"))
	text := tb.api.last()
	assert.Contains(t, text, "Usage & Health Report")
	assert.Contains(t, text, "active timers: 0")
	assert.Contains(t, text, "Plan cache hit rate:")
	assert.Contains(t, text, "No generations recorded.")
}

func TestBot_UnknownCommandShowsHelp(t *testing.T) {
	tb := newTestBot(t)
	tb.processMessage(&tgbotapi.Message{
		From: &tgbotapi.User{ID: chatID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: "hello",
	})
	assert.Equal(t, helpText, tb.api.last())
}

func TestRouter(t *testing.T) {
	tb := newTestBot(t)
	router := tb.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	tb.metrics.CounterChecklistSaves.Inc()
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bodywise_test_checklist_saves 1")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	for _, from := range []int64{7, chatID} {
		body := fmt.Sprintf(`{"update_id":1,"message":{"message_id":5,"from":{"id":%d},"chat":{"id":%d},"text":"/help",
			"entities":[{"type":"bot_command","offset":0,"length":5}]}}`, from, from)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// Close waits for the background handlers.
	require.NoError(t, tb.Close())
	assert.Equal(t, []string{helpText}, tb.api.texts(), "only the allowed user gets an answer")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{usageError("usage: /day <1-7>"), "⚠️ usage: /day <1-7>"},
		{app.ErrNotAuthenticated, "🔒 Please /login with your access token first."},
		{fmt.Errorf("wrapped: %w", app.ErrNoActivePlan), "🗓️ Nothing planned for that week yet. Use /regen for meals or /program for workouts."},
		{fmt.Errorf("meal m_1: %w", app.ErrNotFound), "🤷 meal m\\_1: not found"},
		{app.ErrStale, "🛑 Request cancelled, its result was discarded."},
		{fmt.Errorf("plan/u: %w", request.ErrInFlight), "⏳ Already working on that, hang on."},
		{&generation.Error{Function: "generate-meal-plan", Message: "bad *input*"}, "❌ *Generation failed:* bad \\*input\\*"},
		{errors.New("boom"), "❌ Something went wrong, please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, userMessage(tt.err))
		})
	}
}

func TestApplyPreferences(t *testing.T) {
	prefs, err := applyPreferences(generation.Preferences{Goal: "maintain"}, []string{
		"goal=lose_weight", "level=beginner", "time=45", "equipment=dumbbells, mat",
		"allergies=peanuts", "protein=140", "language=ar",
	})
	require.NoError(t, err)
	assert.Equal(t, generation.Preferences{
		Goal:          "lose_weight",
		FitnessLevel:  "beginner",
		AvailableTime: 45,
		Equipment:     []string{"dumbbells", "mat"},
		Allergies:     []string{"peanuts"},
		TargetMacros:  &planner.Macros{Protein: 140},
		Language:      "ar",
	}, prefs)

	prefs, err = applyPreferences(prefs, []string{"protein=", "equipment="})
	require.NoError(t, err)
	assert.Nil(t, prefs.TargetMacros, "clearing the last macro drops the target")
	assert.Nil(t, prefs.Equipment)

	for _, args := range [][]string{{"goal"}, {"workout=pool"}, {"calories=-5"}, {"time=soon"}, {"color=red"}} {
		_, err := applyPreferences(prefs, args)
		var usage usageError
		assert.ErrorAs(t, err, &usage, "%v", args)
	}
}

func TestSessionRepository(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewSessionRepository(db.SQL)
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	s, err := repo.GetActive(ctx, chatID, SessionTypeAuth)
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = repo.Create(ctx, chatID, SessionTypeAuth, "user-old", SessionContextData{}, now.Add(time.Hour))
	require.NoError(t, err)
	id, err := repo.Create(ctx, chatID, SessionTypeAuth, "user-1", SessionContextData{Email: "a@b.c"}, now.Add(time.Hour))
	require.NoError(t, err)

	s, err = repo.GetActive(ctx, chatID, SessionTypeAuth)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, id, s.ID)
	assert.Equal(t, "user-1", s.UserID, "a new session replaces the old one")
	assert.True(t, s.ExpiresAt.Equal(now.Add(time.Hour)))

	require.NoError(t, repo.Update(ctx, id, SessionContextData{
		Email:       "a@b.c",
		Preferences: generation.Preferences{Goal: "bulk"},
	}))
	s, err = repo.GetActive(ctx, chatID, SessionTypeAuth)
	require.NoError(t, err)
	data, err := s.GetContextData()
	require.NoError(t, err)
	assert.Equal(t, "bulk", data.Preferences.Goal)

	_, err = repo.Create(ctx, 7, SessionTypeAuth, "user-2", SessionContextData{}, now.Add(-time.Minute))
	require.NoError(t, err)
	s, err = repo.GetActive(ctx, 7, SessionTypeAuth)
	require.NoError(t, err)
	assert.Nil(t, s, "expired sessions are ignored")

	removed, err := repo.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	require.NoError(t, repo.Delete(ctx, chatID, SessionTypeAuth))
	s, err = repo.GetActive(ctx, chatID, SessionTypeAuth)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestFormatTimer(t *testing.T) {
	assert.Equal(t, "⏱ idle · 00:00", formatTimer(session.State{Status: session.StatusIdle}))
	assert.Equal(t, "⏱ running · 1:01:05\nExercise `e1`, set 2\n😮‍💨 Resting, 12s left", formatTimer(session.State{
		Status:           session.StatusRunning,
		Elapsed:          3665,
		ActiveExerciseID: "e1",
		CurrentSet:       2,
		Resting:          true,
		RestRemaining:    12,
	}))
}

func TestFormatPreferences(t *testing.T) {
	assert.Contains(t, formatPreferences(generation.Preferences{}), "None set")
	assert.Equal(t, "⚙️ *Preferences*\n• goal: lose\\_weight\n• calories: 1800", formatPreferences(generation.Preferences{
		Goal:         "lose_weight",
		TargetMacros: &planner.Macros{Calories: 1800},
	}))
}
