package database

import (
	"context"
	"database/sql"
	"fmt"

	"curator_monitor_bot/internal/domain/activity"
)

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) Create(ctx context.Context, e *activity.Event) error {
	query := `INSERT INTO curator_activity (curator_id, community_id, kind, points, occurred_at)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, e.CuratorID, e.CommunityID, string(e.Kind), e.Points, e.OccurredAt).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating activity event: %w", err)
	}
	return nil
}
