package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"curator_monitor_bot/internal/domain/community"
)

// Custom errors
var ErrCommunityNotFound = fmt.Errorf("community not found")
var ErrDuplicateCommunity = fmt.Errorf("community with this external id already registered")

type PostgresCommunityRepository struct {
	db *sql.DB
}

func NewPostgresCommunityRepository(db *sql.DB) *PostgresCommunityRepository {
	return &PostgresCommunityRepository{db: db}
}

const communityColumns = `id, external_id, title, curator_role_id, task_channel_id, notify_channel_id, is_sandbox, is_active, created_at, updated_at`

func scanCommunity(row *sql.Row) (*community.Community, error) {
	c := &community.Community{}
	err := row.Scan(&c.ID, &c.ExternalID, &c.Title, &c.CuratorRoleID, &c.TaskChannelID, &c.NotifyChannelID, &c.IsSandbox, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *PostgresCommunityRepository) Create(ctx context.Context, c *community.Community) error {
	query := `INSERT INTO communities (external_id, title, curator_role_id, task_channel_id, notify_channel_id, is_sandbox, is_active)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, c.ExternalID, c.Title, c.CuratorRoleID, c.TaskChannelID, c.NotifyChannelID, c.IsSandbox, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "communities_external_id_key") {
			return ErrDuplicateCommunity
		}
		return fmt.Errorf("error creating community: %w", err)
	}
	return nil
}

func (r *PostgresCommunityRepository) GetByID(ctx context.Context, id int64) (*community.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE id = $1`
	c, err := scanCommunity(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("error getting community by ID: %w", err)
	}
	return c, nil
}

func (r *PostgresCommunityRepository) GetByExternalID(ctx context.Context, externalID string) (*community.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE external_id = $1`
	c, err := scanCommunity(r.db.QueryRowContext(ctx, query, externalID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCommunityNotFound
		}
		return nil, fmt.Errorf("error getting community by external ID: %w", err)
	}
	return c, nil
}

func (r *PostgresCommunityRepository) Update(ctx context.Context, c *community.Community) error {
	query := `UPDATE communities
               SET title = $1, curator_role_id = $2, task_channel_id = $3, notify_channel_id = $4, is_sandbox = $5, is_active = $6, updated_at = NOW()
               WHERE id = $7
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, c.Title, c.CuratorRoleID, c.TaskChannelID, c.NotifyChannelID, c.IsSandbox, c.IsActive, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCommunityNotFound
		}
		return fmt.Errorf("error updating community: %w", err)
	}
	return nil
}

func (r *PostgresCommunityRepository) ListActive(ctx context.Context) ([]*community.Community, error) {
	query := `SELECT ` + communityColumns + ` FROM communities WHERE is_active = TRUE ORDER BY title`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing active communities: %w", err)
	}
	defer rows.Close()

	communities := make([]*community.Community, 0)
	for rows.Next() {
		c := &community.Community{}
		if err := rows.Scan(&c.ID, &c.ExternalID, &c.Title, &c.CuratorRoleID, &c.TaskChannelID, &c.NotifyChannelID, &c.IsSandbox, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning active community: %w", err)
		}
		communities = append(communities, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active communities: %w", err)
	}
	return communities, nil
}
