// internal/infra/database/postgres_task_report_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"curator_monitor_bot/internal/domain/taskreport"
)

// Custom errors specific to the task report repository
var ErrReportNotFound = fmt.Errorf("task report not found")
var ErrDuplicateReport = fmt.Errorf("task report for this source message already exists")

type PostgresTaskReportRepository struct {
	db *sql.DB
}

func NewPostgresTaskReportRepository(db *sql.DB) *PostgresTaskReportRepository {
	return &PostgresTaskReportRepository{db: db}
}

const reportColumns = `id, community_id, author_id, author_name, message_id, channel_id, task_count,
               status, reviewer_id, reviewer_name, verified_at, approved_count, week_start, created_at, updated_at`

func (r *PostgresTaskReportRepository) Create(ctx context.Context, rep *taskreport.Report) error {
	query := `INSERT INTO task_reports (community_id, author_id, author_name, message_id, channel_id, task_count, status, week_start)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		rep.CommunityID, rep.AuthorID, rep.AuthorName, rep.MessageID, rep.ChannelID, rep.TaskCount, string(rep.Status), rep.WeekStart).
		Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "task_reports_message_id_key") {
			return ErrDuplicateReport
		}
		return fmt.Errorf("error creating task report: %w", err)
	}
	return nil
}

func (r *PostgresTaskReportRepository) GetByMessageID(ctx context.Context, messageID string) (*taskreport.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM task_reports WHERE message_id = $1`
	rep := &taskreport.Report{}
	err := r.db.QueryRowContext(ctx, query, messageID).Scan(
		&rep.ID, &rep.CommunityID, &rep.AuthorID, &rep.AuthorName, &rep.MessageID, &rep.ChannelID, &rep.TaskCount,
		&rep.Status, &rep.ReviewerID, &rep.ReviewerName, &rep.VerifiedAt, &rep.ApprovedCount, &rep.WeekStart, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("error getting task report by message ID: %w", err)
	}
	return rep, nil
}

// Claim moves a report from PENDING to REVIEWING. The status guard in the
// WHERE clause serializes racing reactions: only the first one records a reviewer.
func (r *PostgresTaskReportRepository) Claim(ctx context.Context, id int64, reviewerID, reviewerName string) (bool, error) {
	query := `UPDATE task_reports
               SET status = $1, reviewer_id = $2, reviewer_name = $3, updated_at = NOW()
               WHERE id = $4 AND status = $5`

	res, err := r.db.ExecContext(ctx, query, string(taskreport.StatusReviewing), reviewerID, reviewerName, id, string(taskreport.StatusPending))
	if err != nil {
		return false, fmt.Errorf("error claiming task report %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows for task report %d: %w", id, err)
	}
	return affected == 1, nil
}

// Verdict moves a report from REVIEWING to VERIFIED. Guarded on both status
// and the claiming reviewer, so only the curator who claimed the batch can
// close it, and only once.
func (r *PostgresTaskReportRepository) Verdict(ctx context.Context, id int64, reviewerID string, approvedCount int, verifiedAt time.Time) (bool, error) {
	query := `UPDATE task_reports
               SET status = $1, approved_count = $2, verified_at = $3, updated_at = NOW()
               WHERE id = $4 AND status = $5 AND reviewer_id = $6`

	res, err := r.db.ExecContext(ctx, query, string(taskreport.StatusVerified), approvedCount, verifiedAt, id, string(taskreport.StatusReviewing), reviewerID)
	if err != nil {
		return false, fmt.Errorf("error recording verdict for task report %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows for task report %d: %w", id, err)
	}
	return affected == 1, nil
}

func (r *PostgresTaskReportRepository) ListVerifiedByWeek(ctx context.Context, communityID int64, weekStart time.Time) ([]*taskreport.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM task_reports
               WHERE community_id = $1 AND week_start = $2 AND status = $3
               ORDER BY verified_at ASC`

	rows, err := r.db.QueryContext(ctx, query, communityID, weekStart, string(taskreport.StatusVerified))
	if err != nil {
		return nil, fmt.Errorf("error listing verified task reports: %w", err)
	}
	defer rows.Close()

	reports := make([]*taskreport.Report, 0)
	for rows.Next() {
		rep := &taskreport.Report{}
		if err := rows.Scan(
			&rep.ID, &rep.CommunityID, &rep.AuthorID, &rep.AuthorName, &rep.MessageID, &rep.ChannelID, &rep.TaskCount,
			&rep.Status, &rep.ReviewerID, &rep.ReviewerName, &rep.VerifiedAt, &rep.ApprovedCount, &rep.WeekStart, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning verified task report: %w", err)
		}
		reports = append(reports, rep)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating verified task reports: %w", err)
	}
	return reports, nil
}
