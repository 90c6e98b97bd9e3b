// internal/domain/tracking/record.go
package tracking

import (
	"database/sql"
	"time"
)

// ResponseKind distinguishes how a curator resolved a tracked mention.
type ResponseKind string

const (
	KindReply    ResponseKind = "REPLY"
	KindReaction ResponseKind = "REACTION"
)

// Record is one inbound message awaiting a qualifying curator response.
// A record is either open (ResponderID and RespondedAt both null) or resolved
// (both set, together with LatencySeconds). The transition is one-way and
// happens at most once.
type Record struct {
	ID               int64
	CommunityID      int64  // internal community id
	ChannelID        string // channel the mention message was posted in
	MentionMessageID string // unique per record
	MentionedAt      time.Time
	ResponderID      sql.NullInt64  // internal curator id, set on resolution
	ResponseMessage  sql.NullString // id of the resolving message (synthesized for reactions)
	RespondedAt      sql.NullTime
	Kind             sql.NullString // ResponseKind, set with the resolution
	LatencySeconds   sql.NullInt64  // max(1, round(RespondedAt - MentionedAt))
	CreatedAt        time.Time
}

// Resolved reports whether the record has left the open state.
func (r *Record) Resolved() bool { return r.ResponderID.Valid && r.RespondedAt.Valid }
