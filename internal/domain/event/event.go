// internal/domain/event/event.go
package event

import "time"

// Message is a platform-agnostic "message created" event delivered by the
// chat-platform adapter. IDs are kept as strings so that snowflake-style
// platform identifiers survive untouched.
type Message struct {
	CommunityID  string // external id of the community (guild / supergroup)
	ChannelID    string // external id of the channel or forum topic
	MessageID    string
	AuthorID     string // external id of the author
	AuthorName   string
	Text         string
	RoleMentions []string // external ids of roles mentioned in the message
	ReplyTo      *Message // referenced (parent) message, nil when not a reply
	SentAt       time.Time
}

// IsReply reports whether the message references a parent message.
func (m *Message) IsReply() bool { return m.ReplyTo != nil }

// Reaction is a platform-agnostic "reaction added" event.
type Reaction struct {
	CommunityID string
	ChannelID   string
	MessageID   string // the message the reaction was placed on
	UserID      string
	UserName    string
	Emoji       string
	ReactedAt   time.Time
}
