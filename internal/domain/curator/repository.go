package curator

import "context"

// Repository defines the operations for persisting and retrieving curators.
type Repository interface {
	Create(ctx context.Context, c *Curator) error
	GetByID(ctx context.Context, id int64) (*Curator, error)
	// GetByExternalID looks a curator up by chat-platform id within a community.
	GetByExternalID(ctx context.Context, communityID int64, externalID string) (*Curator, error)
	Update(ctx context.Context, c *Curator) error
	ListActive(ctx context.Context, communityID int64) ([]*Curator, error)
}
