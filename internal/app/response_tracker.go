// internal/app/response_tracker.go
package app

import (
	"context"
	"fmt"
	"time"

	"curator_monitor_bot/internal/domain/community"
	"curator_monitor_bot/internal/domain/curator"
	"curator_monitor_bot/internal/domain/event"
	"curator_monitor_bot/internal/domain/tracking"
	idb "curator_monitor_bot/internal/infra/database"
	"curator_monitor_bot/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// ReminderScheduler is the slice of the notification scheduler the tracker and
// the startup reconciler drive.
type ReminderScheduler interface {
	Arm(ctx context.Context, com *community.Community, channelID, messageID string, startedAt time.Time)
	Rearm(ctx context.Context, com *community.Community, channelID, messageID string, startedAt time.Time)
	Cancel(communityID int64, messageID string)
}

// ResponseTracker owns the lifecycle of "awaiting response" records: creation
// when a qualifying mention is observed, one-way resolution when a curator
// replies or reacts, and the arm/cancel side effects on the reminder scheduler.
type ResponseTracker struct {
	records   tracking.Repository
	scheduler ReminderScheduler
	logger    *logrus.Entry
}

func NewResponseTracker(records tracking.Repository, scheduler ReminderScheduler, logger *logrus.Entry) *ResponseTracker {
	return &ResponseTracker{
		records:   records,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Open creates a tracking record for a mention message and arms its reminder.
// A pre-existing record for the same message id is success, not an error:
// duplicate inbound events for one message are expected. Persistence failures
// are logged and the event dropped; losing one record degrades to "no reminder
// sent" and must never crash the event-processing path.
func (t *ResponseTracker) Open(ctx context.Context, com *community.Community, m *event.Message) {
	rec := &tracking.Record{
		CommunityID:      com.ID,
		ChannelID:        m.ChannelID,
		MentionMessageID: m.MessageID,
		MentionedAt:      m.SentAt,
	}

	err := t.records.Create(ctx, rec)
	if err == idb.ErrDuplicateTrackingRecord {
		// The first event already armed a reminder for this key.
		t.logger.WithField("message_id", m.MessageID).Info("Tracking record already exists, duplicate event ignored")
		return
	}
	if err != nil {
		t.logger.WithError(err).WithField("message_id", m.MessageID).Error("Could not create tracking record, event dropped")
		return
	}

	metrics.RecordsOpened.Inc()
	t.logger.WithFields(logrus.Fields{
		"record_id":    rec.ID,
		"community_id": com.ID,
		"message_id":   m.MessageID,
	}).Info("Response tracking opened")

	t.scheduler.Arm(ctx, com, m.ChannelID, m.MessageID, m.SentAt)
}

// Resolve records the first qualifying curator response for a tracked mention.
// Reply and reaction resolutions converge here, distinguished only by kind; a
// reaction has no message id of its own, so a deterministic pseudo id is
// synthesized for bookkeeping. Resolving an unknown or already-resolved record
// is a logged no-op: this is the normal outcome when a message never qualified,
// or when two curators race to respond.
func (t *ResponseTracker) Resolve(ctx context.Context, mentionMessageID string, responder *curator.Curator, responseMessageID string, respondedAt time.Time, kind tracking.ResponseKind) {
	log := t.logger.WithFields(logrus.Fields{
		"message_id": mentionMessageID,
		"curator_id": responder.ID,
		"kind":       string(kind),
	})

	rec, err := t.records.GetByMessageID(ctx, mentionMessageID)
	if err == idb.ErrTrackingRecordNotFound {
		log.Debug("No tracking record for message, nothing to resolve")
		return
	}
	if err != nil {
		log.WithError(err).Error("Could not look up tracking record")
		return
	}
	if rec.Resolved() {
		log.Info("Tracking record already resolved, duplicate response ignored")
		return
	}

	if kind == tracking.KindReaction {
		responseMessageID = fmt.Sprintf("reaction:%s:%s", mentionMessageID, responder.ExternalID)
	}

	latency := int64(respondedAt.Sub(rec.MentionedAt).Round(time.Second) / time.Second)
	if latency < 1 {
		latency = 1
	}

	ok, err := t.records.Resolve(ctx, rec.ID, responder.ID, responseMessageID, respondedAt, kind, latency)
	if err != nil {
		log.WithError(err).Error("Could not resolve tracking record")
		return
	}
	if !ok {
		// Another resolution won the check-and-set between our read and write.
		log.Info("Tracking record resolved concurrently, this response not recorded")
		return
	}

	metrics.RecordsResolved.Inc()
	metrics.ResponseLatency.Observe(float64(latency))
	log.WithFields(logrus.Fields{
		"record_id":       rec.ID,
		"latency_seconds": latency,
	}).Info("Response tracking resolved")

	// A cancel racing a timer that already fired is fine: the scheduler treats
	// an unknown key as a no-op, the reminder was simply already sent.
	t.scheduler.Cancel(rec.CommunityID, mentionMessageID)
}
