package config

import (
	"testing"
)

func setRequired(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("ADMIN_TELEGRAM_ID", "123456")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AdminTelegramID != 123456 {
		t.Errorf("AdminTelegramID = %d", cfg.AdminTelegramID)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
	if cfg.CronSpecDigest != "0 10 * * 1" {
		t.Errorf("CronSpecDigest = %q", cfg.CronSpecDigest)
	}
	if cfg.DefaultReminderDelaySeconds != 300 {
		t.Errorf("DefaultReminderDelaySeconds = %d, want 300", cfg.DefaultReminderDelaySeconds)
	}
	if cfg.DefaultRepeatNotifications {
		t.Error("repeat notifications must default to off")
	}
	if !cfg.DefaultCuratorNotifications {
		t.Error("curator notifications must default to on")
	}
	if len(cfg.DefaultKeywords) != 4 {
		t.Errorf("DefaultKeywords = %v", cfg.DefaultKeywords)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"no token", "TELEGRAM_TOKEN"},
		{"no database", "DATABASE_URL"},
		{"no admin id", "ADMIN_TELEGRAM_ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.omit, "")
			if _, err := Load(); err == nil {
				t.Errorf("Load() must fail without %s", tt.omit)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REMINDER_DELAY_SECONDS", "60")
	t.Setenv("REPEAT_NOTIFICATIONS", "true")
	t.Setenv("KEYWORDS", "куратор, срочно ,help")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want lowercased debug", cfg.LogLevel)
	}
	if cfg.DefaultReminderDelaySeconds != 60 {
		t.Errorf("DefaultReminderDelaySeconds = %d, want 60", cfg.DefaultReminderDelaySeconds)
	}
	if !cfg.DefaultRepeatNotifications {
		t.Error("REPEAT_NOTIFICATIONS=true not applied")
	}
	want := []string{"куратор", "срочно", "help"}
	if len(cfg.DefaultKeywords) != len(want) {
		t.Fatalf("DefaultKeywords = %v, want %v", cfg.DefaultKeywords, want)
	}
	for i := range want {
		if cfg.DefaultKeywords[i] != want[i] {
			t.Errorf("DefaultKeywords[%d] = %q, want %q", i, cfg.DefaultKeywords[i], want[i])
		}
	}
}

func TestLoadRejectsBadReminderDelay(t *testing.T) {
	setRequired(t)
	t.Setenv("REMINDER_DELAY_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Error("Load() must reject a non-positive reminder delay")
	}
}
