package curator

import "time"

// Curator represents a registered community-support staff member whose
// responses are tracked.
type Curator struct {
	ID          int64
	CommunityID int64  // internal id of the community the curator serves
	ExternalID  string // chat-platform id of the curator
	Name        string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
