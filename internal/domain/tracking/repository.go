package tracking

import (
	"context"
	"time"
)

// Repository defines persistence for response-tracking records.
type Repository interface {
	// Create inserts an open record. A record with the same mention message id
	// must be rejected with a duplicate error so racing duplicate events
	// collapse into a single record.
	Create(ctx context.Context, r *Record) error
	GetByMessageID(ctx context.Context, mentionMessageID string) (*Record, error)
	// Resolve performs the open -> resolved transition as a check-and-set: it
	// must only touch records whose responder is still null and report whether
	// a row actually changed, so racing resolutions record exactly one responder.
	Resolve(ctx context.Context, id int64, responderID int64, responseMessageID string, respondedAt time.Time, kind ResponseKind, latencySeconds int64) (bool, error)
	// ListOpen returns all unresolved records, oldest first. Used by the
	// startup reconciler to re-arm reminders after a restart.
	ListOpen(ctx context.Context) ([]*Record, error)
}
