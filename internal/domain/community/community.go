package community

import "time"

// Community represents a single chat-platform community the bot operates in.
type Community struct {
	ID              int64
	ExternalID      string // chat-platform id of the community
	Title           string
	CuratorRoleID   string // role whose mention marks a message as needing a curator
	TaskChannelID   string // channel where task-report submissions are accepted
	NotifyChannelID string // staff channel that receives reminders and digests
	IsSandbox       bool   // test communities allow curators to submit their own reports
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
