// internal/app/dispatcher.go
package app

import (
	"context"

	"curator_monitor_bot/internal/domain/community"
	"curator_monitor_bot/internal/domain/curator"
	"curator_monitor_bot/internal/domain/event"
	"curator_monitor_bot/internal/domain/settings"
	"curator_monitor_bot/internal/domain/tracking"
	idb "curator_monitor_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Dispatcher is the entry point the chat-platform adapter calls into. It
// classifies each inbound event and routes it to the response tracker and the
// task-report state machine. Every failure is terminal at the scope of the
// single event; nothing thrown here may take down the event stream.
type Dispatcher struct {
	communities community.Repository
	curators    curator.Repository
	settings    settings.Provider
	tracker     *ResponseTracker
	taskReports *TaskReportService
	logger      *logrus.Entry
}

func NewDispatcher(
	communities community.Repository,
	curators curator.Repository,
	settingsProvider settings.Provider,
	tracker *ResponseTracker,
	taskReports *TaskReportService,
	logger *logrus.Entry,
) *Dispatcher {
	return &Dispatcher{
		communities: communities,
		curators:    curators,
		settings:    settingsProvider,
		tracker:     tracker,
		taskReports: taskReports,
		logger:      logger,
	}
}

// OnMessage handles a "message created" event.
func (d *Dispatcher) OnMessage(ctx context.Context, m *event.Message) {
	com := d.communityFor(ctx, m.CommunityID)
	if com == nil {
		return
	}

	cur := d.curatorFor(ctx, com, m.AuthorID)

	if m.IsReply() {
		// A curator's reply may resolve an open tracking record for the parent
		// message and may carry a verdict for a claimed task report. Replies
		// never open tracking and are never submissions.
		if cur != nil {
			d.tracker.Resolve(ctx, m.ReplyTo.MessageID, cur, m.MessageID, m.SentAt, tracking.KindReply)
		}
		d.taskReports.HandleVerdict(ctx, com, m, cur)
		return
	}

	st, err := d.settings.Current(ctx)
	if err != nil {
		d.logger.WithError(err).Error("Could not read settings, message event dropped")
		return
	}
	if !NeedsCuratorResponse(m, com.CuratorRoleID, st.Keywords) {
		return
	}

	// Curators' own mention messages are not tracked; everything else that
	// qualifies starts awaiting a response.
	if cur == nil {
		d.tracker.Open(ctx, com, m)
	}

	// A submission in the task channel is also a tracked mention: the reaction
	// that claims it resolves the tracking record at the same time.
	d.taskReports.HandleSubmission(ctx, com, m, cur != nil)
}

// OnReaction handles a "reaction added" event. Only reactions from registered
// curators matter: they resolve open tracking records and claim task reports.
func (d *Dispatcher) OnReaction(ctx context.Context, r *event.Reaction) {
	com := d.communityFor(ctx, r.CommunityID)
	if com == nil {
		return
	}

	cur := d.curatorFor(ctx, com, r.UserID)
	if cur == nil {
		return
	}

	d.tracker.Resolve(ctx, r.MessageID, cur, "", r.ReactedAt, tracking.KindReaction)
	d.taskReports.HandleClaim(ctx, com, r, cur)
}

func (d *Dispatcher) communityFor(ctx context.Context, externalID string) *community.Community {
	com, err := d.communities.GetByExternalID(ctx, externalID)
	if err == idb.ErrCommunityNotFound {
		d.logger.WithField("community", externalID).Debug("Event from unregistered community ignored")
		return nil
	}
	if err != nil {
		d.logger.WithError(err).WithField("community", externalID).Error("Could not look up community, event dropped")
		return nil
	}
	if !com.IsActive {
		return nil
	}
	return com
}

// curatorFor returns the active curator behind an external user id, or nil
// when the user is not a registered curator of the community.
func (d *Dispatcher) curatorFor(ctx context.Context, com *community.Community, externalID string) *curator.Curator {
	cur, err := d.curators.GetByExternalID(ctx, com.ID, externalID)
	if err == idb.ErrCuratorNotFound {
		return nil
	}
	if err != nil {
		d.logger.WithError(err).WithField("user", externalID).Error("Could not look up curator, treating author as regular member")
		return nil
	}
	if !cur.IsActive {
		return nil
	}
	return cur
}
