package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	DatabaseURL   string
	HTTPAddr      string
	AdminUsername string
	AdminPassword string
	Currency      string
	LogLevel      string
	Environment   string

	// Notifier worker timing.
	TickInterval    time.Duration // normal delay between ticks
	BackoffInterval time.Duration // delay after a failed tick
	DedupWindow     time.Duration // per-subscription notification suppression span
	RetentionWindow time.Duration // age past which read notifications are swept

	// Admin session handling.
	SessionTTL           time.Duration
	SessionPurgeCronSpec string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.AdminUsername = os.Getenv("ADMIN_USERNAME")
	if cfg.AdminUsername == "" {
		return nil, fmt.Errorf("ADMIN_USERNAME is not set")
	}
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("ADMIN_PASSWORD is not set")
	}

	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	cfg.Currency = strings.ToUpper(os.Getenv("DEFAULT_CURRENCY"))
	if cfg.Currency == "" {
		cfg.Currency = "PHP"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.TickInterval, err = durationEnv("NOTIFY_TICK_INTERVAL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.BackoffInterval, err = durationEnv("NOTIFY_BACKOFF_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DedupWindow, err = durationEnv("NOTIFY_DEDUP_WINDOW", 23*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RetentionWindow, err = durationEnv("NOTIFY_RETENTION_WINDOW", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 12*time.Hour); err != nil {
		return nil, err
	}

	cfg.SessionPurgeCronSpec = os.Getenv("SESSION_PURGE_CRON_SPEC")
	if cfg.SessionPurgeCronSpec == "" {
		cfg.SessionPurgeCronSpec = "0 4 * * *" // Default: 4:00 AM daily
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
