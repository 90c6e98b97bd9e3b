// internal/app/reconciler.go
package app

import (
	"context"
	"fmt"

	"curator_monitor_bot/internal/domain/community"
	"curator_monitor_bot/internal/domain/tracking"

	"github.com/sirupsen/logrus"
)

// Reconciler re-scans unresolved tracking records once at boot and re-arms
// their reminders. Records resolved while the process was down stay resolved
// (the store is authoritative); open records get a timer for the remaining
// delay, or fire near-immediately when already overdue.
type Reconciler struct {
	records     tracking.Repository
	communities community.Repository
	scheduler   ReminderScheduler
	logger      *logrus.Entry
}

func NewReconciler(
	records tracking.Repository,
	communities community.Repository,
	scheduler ReminderScheduler,
	logger *logrus.Entry,
) *Reconciler {
	return &Reconciler{
		records:     records,
		communities: communities,
		scheduler:   scheduler,
		logger:      logger,
	}
}

// Run is called once by the host process after the event source is ready.
func (r *Reconciler) Run(ctx context.Context) error {
	open, err := r.records.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open tracking records: %w", err)
	}
	if len(open) == 0 {
		r.logger.Info("No open tracking records to reconcile")
		return nil
	}

	rearmed := 0
	for _, rec := range open {
		com, err := r.communities.GetByID(ctx, rec.CommunityID)
		if err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"record_id":    rec.ID,
				"community_id": rec.CommunityID,
			}).Error("Could not load community for open record, reminder not re-armed")
			continue
		}
		// The dispatcher ignores events from deactivated communities; their
		// open records stay silent too.
		if !com.IsActive {
			r.logger.WithFields(logrus.Fields{
				"record_id":    rec.ID,
				"community_id": rec.CommunityID,
			}).Info("Community inactive, open record left without reminder")
			continue
		}
		r.scheduler.Rearm(ctx, com, rec.ChannelID, rec.MentionMessageID, rec.MentionedAt)
		rearmed++
	}

	r.logger.WithFields(logrus.Fields{
		"open_records": len(open),
		"rearmed":      rearmed,
	}).Info("Startup reconciliation complete")
	return nil
}
