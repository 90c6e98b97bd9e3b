// internal/domain/taskreport/report.go
package taskreport

import (
	"database/sql"
	"time"
)

// Status is the state of a task-report batch. Transitions only ever move
// forward: PENDING -> REVIEWING -> VERIFIED.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusReviewing Status = "REVIEWING"
	StatusVerified  Status = "VERIFIED"
)

// Report is a batch-of-work submission awaiting curator review and verdict.
type Report struct {
	ID            int64
	CommunityID   int64
	AuthorID      string // chat-platform id of the submitting member
	AuthorName    string
	MessageID     string // source message id, unique per report
	ChannelID     string
	TaskCount     int // parsed from the submission text, always positive
	Status        Status
	ReviewerID    sql.NullString // chat-platform id of the claiming curator
	ReviewerName  sql.NullString
	VerifiedAt    sql.NullTime
	ApprovedCount sql.NullInt64 // in [0, TaskCount], set with the verdict
	WeekStart     time.Time     // Monday-aligned week bucket, fixed at creation
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WeekStart returns the Monday 00:00 UTC of the week t falls in. Submissions
// are bucketed by this value for the weekly digest.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	d := t.AddDate(0, 0, -daysSinceMonday)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
