package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"curator_monitor_bot/internal/domain/settings"

	"github.com/lib/pq" // For pq.Array
)

var ErrSettingsNotFound = fmt.Errorf("bot settings row not found")

// PostgresSettingsRepository stores the single operator-tunable settings row.
// The dashboard (out of scope) edits it; this repository always reads it fresh
// so a changed reminder delay takes effect without a restart.
type PostgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

// Current implements settings.Provider.
func (r *PostgresSettingsRepository) Current(ctx context.Context) (*settings.Settings, error) {
	query := `SELECT reminder_delay_seconds, repeat_notifications, curator_notifications, keywords
               FROM bot_settings WHERE id = 1`

	var delaySeconds int64
	s := &settings.Settings{}
	err := r.db.QueryRowContext(ctx, query).Scan(&delaySeconds, &s.RepeatNotifications, &s.CuratorNotifications, pq.Array(&s.Keywords))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("error reading bot settings: %w", err)
	}
	s.ReminderDelay = time.Duration(delaySeconds) * time.Second
	return s, nil
}

// Seed inserts the settings row with the given defaults if it does not exist
// yet. Existing values set by operators are never overwritten.
func (r *PostgresSettingsRepository) Seed(ctx context.Context, s *settings.Settings) error {
	query := `INSERT INTO bot_settings (id, reminder_delay_seconds, repeat_notifications, curator_notifications, keywords)
               VALUES (1, $1, $2, $3, $4)
               ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		int64(s.ReminderDelay/time.Second), s.RepeatNotifications, s.CuratorNotifications, pq.Array(s.Keywords))
	if err != nil {
		return fmt.Errorf("error seeding bot settings: %w", err)
	}
	return nil
}
