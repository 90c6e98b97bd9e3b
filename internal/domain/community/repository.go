package community

import "context"

// Repository defines the operations for persisting and retrieving communities.
type Repository interface {
	Create(ctx context.Context, c *Community) error
	GetByID(ctx context.Context, id int64) (*Community, error)
	GetByExternalID(ctx context.Context, externalID string) (*Community, error)
	Update(ctx context.Context, c *Community) error
	ListActive(ctx context.Context) ([]*Community, error)
}
