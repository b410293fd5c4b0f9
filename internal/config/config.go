package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is built once at process start from the environment and
// passed by reference into every component. Components never look up
// env vars themselves.
type Config struct {
	// Storage
	StorageDir  string
	LogDir      string
	DatabaseURL string // optional digest archive

	// Telegram delivery
	TelegramToken  string
	TelegramChatID string
	TelegramMax    int // max message/chunk size in bytes
	ChunkPause     time.Duration

	// Ranking (optional; missing credential disables ranking)
	GroqAPIKey   string
	GeminiAPIKey string
	RankModel    string
	RankTopN     int
	RankMaxInput int
	RankTimeout  time.Duration

	// AI request budget
	MaxGeminiRequests int
	MaxGroqRequests   int
	MaxAIRequests     int

	// Link shortening (optional)
	ShortIOAPIKey string
	ShortIODomain string
	ShortenPause  time.Duration

	// Pipeline
	PipelinePath   string
	ItemsPerFeed   int
	MaxPerSection  int
	NewsMaxAge     time.Duration // 0 disables the recency filter
	RequestTimeout time.Duration

	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		StorageDir:        "./digests",
		LogDir:            "./logs",
		TelegramMax:       3900,
		ChunkPause:        400 * time.Millisecond,
		RankTopN:          10,
		RankMaxInput:      30,
		RankTimeout:       8 * time.Second,
		MaxGeminiRequests: 3,
		MaxGroqRequests:   3,
		MaxAIRequests:     5,
		ShortenPause:      200 * time.Millisecond,
		PipelinePath:      "configs/pipeline.yaml",
		ItemsPerFeed:      10,
		MaxPerSection:     5,
		RequestTimeout:    15 * time.Second,
	}

	// Load from environment
	cfg.StorageDir = getEnvOrDefault("STORAGE_PATH", cfg.StorageDir)
	cfg.LogDir = getEnvOrDefault("LOG_PATH", cfg.LogDir)
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.TelegramToken = os.Getenv("TG_TOKEN")
	cfg.TelegramChatID = os.Getenv("TG_CHAT_ID")

	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.RankModel = os.Getenv("RANK_MODEL")

	cfg.ShortIOAPIKey = os.Getenv("SHORTIO_API_KEY")
	cfg.ShortIODomain = getEnvOrDefault("SHORTIO_DOMAIN", "short.gy")

	cfg.PipelinePath = getEnvOrDefault("PIPELINE_CONFIG", cfg.PipelinePath)

	cfg.TelegramMax = getEnvIntOrDefault("TELEGRAM_MAX", cfg.TelegramMax)
	cfg.ItemsPerFeed = getEnvIntOrDefault("ITEMS_PER_FEED", cfg.ItemsPerFeed)
	cfg.MaxPerSection = getEnvIntOrDefault("MAX_PER_SECTION", cfg.MaxPerSection)
	cfg.RankTopN = getEnvIntOrDefault("RANK_TOP_N", cfg.RankTopN)
	cfg.RankMaxInput = getEnvIntOrDefault("RANK_MAX_INPUT", cfg.RankMaxInput)
	cfg.MaxGeminiRequests = getEnvIntOrDefault("MAX_GEMINI_REQUESTS", cfg.MaxGeminiRequests)
	cfg.MaxGroqRequests = getEnvIntOrDefault("MAX_GROQ_REQUESTS", cfg.MaxGroqRequests)
	cfg.MaxAIRequests = getEnvIntOrDefault("MAX_AI_REQUESTS", cfg.MaxAIRequests)

	if hours := getEnvIntOrDefault("NEWS_MAX_AGE_HOURS", 0); hours > 0 {
		cfg.NewsMaxAge = time.Duration(hours) * time.Hour
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks the structural settings. Credentials are not
// required here: missing optional credentials silently disable their
// feature, and missing Telegram credentials surface as a delivery
// failure, not a startup failure.
func (c *Config) Validate() error {
	if c.TelegramMax < 100 {
		return fmt.Errorf("TELEGRAM_MAX must be at least 100, got %d", c.TelegramMax)
	}
	if c.RankTopN < 1 {
		return fmt.Errorf("RANK_TOP_N must be positive, got %d", c.RankTopN)
	}
	if c.RankMaxInput < c.RankTopN {
		return fmt.Errorf("RANK_MAX_INPUT (%d) must not be below RANK_TOP_N (%d)", c.RankMaxInput, c.RankTopN)
	}
	if c.ItemsPerFeed < 1 {
		return fmt.Errorf("ITEMS_PER_FEED must be positive, got %d", c.ItemsPerFeed)
	}
	return nil
}
