package activity

import (
	"context"
	"time"
)

// Kind labels the scored action a curator performed.
type Kind string

const (
	// KindTaskVerification is emitted when a curator issues a verdict on a
	// task-report batch. Points equal the approved task count.
	KindTaskVerification Kind = "TASK_VERIFICATION"
)

// Event is a single scored activity entry for a curator, consumed by the
// external reporting/scoring tooling.
type Event struct {
	ID          int64
	CuratorID   int64 // internal curator id
	CommunityID int64
	Kind        Kind
	Points      int
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// Repository records activity events.
type Repository interface {
	Create(ctx context.Context, e *Event) error
}
