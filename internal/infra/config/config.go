package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all static configuration for the application. Dynamic,
// operator-tunable values (reminder delay, repeat policy, keywords) live in
// the database and are only seeded from the defaults below on first start.
type AppConfig struct {
	TelegramToken   string
	DatabaseURL     string
	AdminTelegramID int64
	LogLevel        string
	Environment     string
	MetricsAddr     string // empty disables the /metrics listener
	CronSpecDigest  string // weekly verification digest

	// Seed values for the dynamic settings row.
	DefaultReminderDelaySeconds int
	DefaultRepeatNotifications  bool
	DefaultCuratorNotifications bool
	DefaultKeywords             []string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.MetricsAddr = os.Getenv("METRICS_ADDR")

	cfg.CronSpecDigest = os.Getenv("CRON_SPEC_WEEKLY_DIGEST")
	if cfg.CronSpecDigest == "" {
		cfg.CronSpecDigest = "0 10 * * 1" // Default: 10:00 AM every Monday
	}

	cfg.DefaultReminderDelaySeconds = 300
	if v := os.Getenv("REMINDER_DELAY_SECONDS"); v != "" {
		cfg.DefaultReminderDelaySeconds, err = strconv.Atoi(v)
		if err != nil || cfg.DefaultReminderDelaySeconds <= 0 {
			return nil, fmt.Errorf("invalid REMINDER_DELAY_SECONDS: %q", v)
		}
	}

	cfg.DefaultRepeatNotifications = parseBool(os.Getenv("REPEAT_NOTIFICATIONS"), false)
	cfg.DefaultCuratorNotifications = parseBool(os.Getenv("CURATOR_NOTIFICATIONS_ENABLED"), true)

	cfg.DefaultKeywords = []string{"куратор", "curator", "помогите", "help"}
	if v := os.Getenv("KEYWORDS"); v != "" {
		cfg.DefaultKeywords = cfg.DefaultKeywords[:0]
		for _, kw := range strings.Split(v, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				cfg.DefaultKeywords = append(cfg.DefaultKeywords, kw)
			}
		}
	}

	return cfg, nil
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
