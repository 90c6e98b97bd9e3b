package settings

import (
	"context"
	"time"
)

// Settings holds the operator-tunable knobs of the tracking engine. They are
// edited through the dashboard (out of scope here) and therefore must be read
// fresh from the store whenever a reminder is armed, never cached.
type Settings struct {
	ReminderDelay        time.Duration // how long a mention may stay unanswered
	RepeatNotifications  bool          // re-send the reminder every ReminderDelay until resolved
	CuratorNotifications bool          // master switch for reminders
	Keywords             []string      // case-insensitive substrings that mark a message as needing a response
}

// Provider exposes the current settings.
type Provider interface {
	Current(ctx context.Context) (*Settings, error)
}
