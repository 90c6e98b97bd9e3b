package taskreport

import (
	"context"
	"time"
)

// Repository defines persistence for task reports.
type Repository interface {
	// Create inserts a new report in PENDING state. A report with the same
	// source message id must be rejected with a duplicate error.
	Create(ctx context.Context, r *Report) error
	GetByMessageID(ctx context.Context, messageID string) (*Report, error)
	// Claim performs PENDING -> REVIEWING as a check-and-set keyed on the
	// current status, reporting whether a row changed. Only the first reaction
	// wins; later claims leave the reviewer untouched.
	Claim(ctx context.Context, id int64, reviewerID, reviewerName string) (bool, error)
	// Verdict performs REVIEWING -> VERIFIED, guarded on both the status and
	// the claiming reviewer, setting approved count and verification time
	// atomically with the transition.
	Verdict(ctx context.Context, id int64, reviewerID string, approvedCount int, verifiedAt time.Time) (bool, error)
	// ListVerifiedByWeek returns a community's verified reports for one
	// Monday-aligned week bucket, for the weekly digest.
	ListVerifiedByWeek(ctx context.Context, communityID int64, weekStart time.Time) ([]*Report, error)
}
