// internal/infra/database/postgres_tracking_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"curator_monitor_bot/internal/domain/tracking"
)

// Custom errors specific to the tracking repository
var ErrTrackingRecordNotFound = fmt.Errorf("response tracking record not found")
var ErrDuplicateTrackingRecord = fmt.Errorf("response tracking record for this mention message already exists")

type PostgresTrackingRepository struct {
	db *sql.DB
}

func NewPostgresTrackingRepository(db *sql.DB) *PostgresTrackingRepository {
	return &PostgresTrackingRepository{db: db}
}

const trackingColumns = `id, community_id, channel_id, mention_message_id, mentioned_at,
               responder_id, response_message_id, responded_at, response_kind, latency_seconds, created_at`

func (r *PostgresTrackingRepository) Create(ctx context.Context, rec *tracking.Record) error {
	query := `INSERT INTO response_tracking (community_id, channel_id, mention_message_id, mentioned_at)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, rec.CommunityID, rec.ChannelID, rec.MentionMessageID, rec.MentionedAt).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		// The unique index on mention_message_id is what makes lookup-then-insert
		// race-safe against duplicate inbound events for the same message.
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "response_tracking_mention_message_id_key") {
			return ErrDuplicateTrackingRecord
		}
		return fmt.Errorf("error creating response tracking record: %w", err)
	}
	return nil
}

func (r *PostgresTrackingRepository) GetByMessageID(ctx context.Context, mentionMessageID string) (*tracking.Record, error) {
	query := `SELECT ` + trackingColumns + ` FROM response_tracking WHERE mention_message_id = $1`
	rec := &tracking.Record{}
	err := r.db.QueryRowContext(ctx, query, mentionMessageID).Scan(
		&rec.ID, &rec.CommunityID, &rec.ChannelID, &rec.MentionMessageID, &rec.MentionedAt,
		&rec.ResponderID, &rec.ResponseMessage, &rec.RespondedAt, &rec.Kind, &rec.LatencySeconds, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrTrackingRecordNotFound
		}
		return nil, fmt.Errorf("error getting tracking record by message ID: %w", err)
	}
	return rec, nil
}

// Resolve flips an open record to resolved. The WHERE clause doubles as the
// check-and-set guard: a record that already has a responder is left untouched
// and the method reports false, so racing resolutions record exactly one responder.
func (r *PostgresTrackingRepository) Resolve(ctx context.Context, id int64, responderID int64, responseMessageID string, respondedAt time.Time, kind tracking.ResponseKind, latencySeconds int64) (bool, error) {
	query := `UPDATE response_tracking
               SET responder_id = $1, response_message_id = $2, responded_at = $3, response_kind = $4, latency_seconds = $5
               WHERE id = $6 AND responder_id IS NULL`

	res, err := r.db.ExecContext(ctx, query, responderID, responseMessageID, respondedAt, string(kind), latencySeconds, id)
	if err != nil {
		return false, fmt.Errorf("error resolving tracking record %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows for tracking record %d: %w", id, err)
	}
	return affected == 1, nil
}

func (r *PostgresTrackingRepository) ListOpen(ctx context.Context) ([]*tracking.Record, error) {
	query := `SELECT ` + trackingColumns + ` FROM response_tracking
               WHERE responder_id IS NULL ORDER BY mentioned_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing open tracking records: %w", err)
	}
	defer rows.Close()

	records := make([]*tracking.Record, 0)
	for rows.Next() {
		rec := &tracking.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.CommunityID, &rec.ChannelID, &rec.MentionMessageID, &rec.MentionedAt,
			&rec.ResponderID, &rec.ResponseMessage, &rec.RespondedAt, &rec.Kind, &rec.LatencySeconds, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning open tracking record: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating open tracking records: %w", err)
	}
	return records, nil
}
