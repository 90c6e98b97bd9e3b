package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"curator_monitor_bot/internal/domain/curator"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrCuratorNotFound = fmt.Errorf("curator not found")
var ErrDuplicateCurator = fmt.Errorf("curator with this external id already registered in the community")

type PostgresCuratorRepository struct {
	db *sql.DB
}

func NewPostgresCuratorRepository(db *sql.DB) *PostgresCuratorRepository {
	return &PostgresCuratorRepository{db: db}
}

func (r *PostgresCuratorRepository) Create(ctx context.Context, c *curator.Curator) error {
	query := `INSERT INTO curators (community_id, external_id, name, is_active)
               VALUES ($1, $2, $3, $4)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, c.CommunityID, c.ExternalID, c.Name, c.IsActive).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") && strings.Contains(err.Error(), "curators_community_id_external_id_key") {
			return ErrDuplicateCurator
		}
		return fmt.Errorf("error creating curator: %w", err)
	}
	return nil
}

func (r *PostgresCuratorRepository) GetByID(ctx context.Context, id int64) (*curator.Curator, error) {
	query := `SELECT id, community_id, external_id, name, is_active, created_at, updated_at
               FROM curators WHERE id = $1`
	c := &curator.Curator{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.CommunityID, &c.ExternalID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCuratorNotFound
		}
		return nil, fmt.Errorf("error getting curator by ID: %w", err)
	}
	return c, nil
}

func (r *PostgresCuratorRepository) GetByExternalID(ctx context.Context, communityID int64, externalID string) (*curator.Curator, error) {
	query := `SELECT id, community_id, external_id, name, is_active, created_at, updated_at
               FROM curators WHERE community_id = $1 AND external_id = $2`
	c := &curator.Curator{}
	err := r.db.QueryRowContext(ctx, query, communityID, externalID).Scan(&c.ID, &c.CommunityID, &c.ExternalID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCuratorNotFound
		}
		return nil, fmt.Errorf("error getting curator by external ID: %w", err)
	}
	return c, nil
}

func (r *PostgresCuratorRepository) Update(ctx context.Context, c *curator.Curator) error {
	query := `UPDATE curators
               SET name = $1, is_active = $2, updated_at = NOW()
               WHERE id = $3
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, c.Name, c.IsActive, c.ID).Scan(&c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrCuratorNotFound
		}
		return fmt.Errorf("error updating curator: %w", err)
	}
	return nil
}

func (r *PostgresCuratorRepository) ListActive(ctx context.Context, communityID int64) ([]*curator.Curator, error) {
	query := `SELECT id, community_id, external_id, name, is_active, created_at, updated_at
               FROM curators WHERE community_id = $1 AND is_active = TRUE ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, communityID)
	if err != nil {
		return nil, fmt.Errorf("error listing active curators: %w", err)
	}
	defer rows.Close()

	curators := make([]*curator.Curator, 0)
	for rows.Next() {
		c := &curator.Curator{}
		if err := rows.Scan(&c.ID, &c.CommunityID, &c.ExternalID, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning active curator: %w", err)
		}
		curators = append(curators, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating active curators: %w", err)
	}
	return curators, nil
}
