package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ahmed-elhagar/body-wise-ai-fit-sub000/internal/week"
)

// Generation backends.
const (
	BackendEdge   = "edge"
	BackendGemini = "gemini"
)

// Config holds the configuration for the application.
type Config struct {
	SupabaseURL       string
	SupabaseAnonKey   string
	SupabaseJWTSecret string

	GenerationBackend string
	GeminiAPIKey      string
	GeminiModel       string

	DatabasePath string

	LogLevel string
	LogFile  string
	LogJSON  bool

	MealWeekStart     time.Weekday
	ExerciseWeekStart time.Weekday

	PlanCacheMB  int
	PlanCacheTTL time.Duration

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
	Port                   string
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	if supabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL environment variable not set")
	}

	anonKey := os.Getenv("SUPABASE_ANON_KEY")
	if anonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY environment variable not set")
	}

	jwtSecret := os.Getenv("SUPABASE_JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("SUPABASE_JWT_SECRET environment variable not set")
	}

	backend := strings.ToLower(envOr("GENERATION_BACKEND", BackendEdge))
	geminiAPIKey := os.Getenv("GEMINI_API_KEY")
	switch backend {
	case BackendEdge:
	case BackendGemini:
		if geminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown GENERATION_BACKEND %q", backend)
	}

	logJSON, err := envBool("LOG_JSON")
	if err != nil {
		return nil, err
	}

	mealStart, err := envWeekday("MEAL_WEEK_START", week.MealPlanStart)
	if err != nil {
		return nil, err
	}
	exerciseStart, err := envWeekday("EXERCISE_WEEK_START", week.ExerciseStart)
	if err != nil {
		return nil, err
	}

	cacheMB, err := envInt("PLAN_CACHE_MB", 16)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := envInt("PLAN_CACHE_TTL_SECONDS", 300)
	if err != nil {
		return nil, err
	}

	// Telegram Config (Optional for CLI, required for Bot)
	allowed, err := envIDs("TELEGRAM_ALLOWED_USER_IDS")
	if err != nil {
		return nil, err
	}
	adminID, err := envInt64("ADMIN_TELEGRAM_ID")
	if err != nil {
		return nil, err
	}

	return &Config{
		SupabaseURL:            strings.TrimRight(supabaseURL, "/"),
		SupabaseAnonKey:        anonKey,
		SupabaseJWTSecret:      jwtSecret,
		GenerationBackend:      backend,
		GeminiAPIKey:           geminiAPIKey,
		GeminiModel:            envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		DatabasePath:           envOr("DATABASE_PATH", "data/bodywise.db"),
		LogLevel:               envOr("LOG_LEVEL", "info"),
		LogFile:                os.Getenv("LOG_FILE"),
		LogJSON:                logJSON,
		MealWeekStart:          mealStart,
		ExerciseWeekStart:      exerciseStart,
		PlanCacheMB:            cacheMB,
		PlanCacheTTL:           time.Duration(cacheTTL) * time.Second,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
		AdminTelegramID:        adminID,
		Port:                   envOr("PORT", "8080"),
	}, nil
}

// IsAllowed reports whether a Telegram user may use the bot. An empty
// allow list admits everyone.
func (c *Config) IsAllowed(userID int64) bool {
	if len(c.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, id := range c.TelegramAllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return userID == c.AdminTelegramID && userID != 0
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envInt64(key string) (int64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envIDs(key string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(os.Getenv(key), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func envWeekday(key string, fallback time.Weekday) (time.Weekday, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := week.ParseWeekday(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
