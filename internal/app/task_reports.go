// internal/app/task_reports.go
package app

import (
	"context"

	"curator_monitor_bot/internal/domain/activity"
	"curator_monitor_bot/internal/domain/community"
	"curator_monitor_bot/internal/domain/curator"
	"curator_monitor_bot/internal/domain/event"
	"curator_monitor_bot/internal/domain/settings"
	"curator_monitor_bot/internal/domain/taskreport"
	idb "curator_monitor_bot/internal/infra/database"
	"curator_monitor_bot/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// TaskReportService drives the submission -> review -> verdict workflow for
// batches of completed tasks. Status only ever moves forward: a fresh
// submission is PENDING, the first curator reaction claims it into REVIEWING,
// and only a reply from the claiming curator verifies it.
type TaskReportService struct {
	reports  taskreport.Repository
	activity activity.Repository
	settings settings.Provider
	logger   *logrus.Entry
}

func NewTaskReportService(
	reports taskreport.Repository,
	activityRepo activity.Repository,
	settingsProvider settings.Provider,
	logger *logrus.Entry,
) *TaskReportService {
	return &TaskReportService{
		reports:  reports,
		activity: activityRepo,
		settings: settingsProvider,
		logger:   logger,
	}
}

// HandleSubmission accepts a task report submission. Gates, in order: the
// message is in the community's task channel, is not itself a reply, matches
// the mention detector, and its author is not a curator (unless the community
// is a sandbox). A submission without a parseable task count is discarded.
func (s *TaskReportService) HandleSubmission(ctx context.Context, com *community.Community, m *event.Message, authorIsCurator bool) {
	log := s.logger.WithFields(logrus.Fields{
		"community_id": com.ID,
		"message_id":   m.MessageID,
		"author_id":    m.AuthorID,
	})

	if com.TaskChannelID == "" || m.ChannelID != com.TaskChannelID {
		return
	}
	if m.IsReply() {
		return
	}

	st, err := s.settings.Current(ctx)
	if err != nil {
		log.WithError(err).Error("Could not read settings, submission dropped")
		return
	}
	if !NeedsCuratorResponse(m, com.CuratorRoleID, st.Keywords) {
		return
	}
	if authorIsCurator && !com.IsSandbox {
		log.Debug("Curator submission outside sandbox community ignored")
		return
	}

	count, ok := ParseTaskCount(m.Text)
	if !ok {
		log.Info("No task count found in submission text, submission discarded")
		return
	}

	rep := &taskreport.Report{
		CommunityID: com.ID,
		AuthorID:    m.AuthorID,
		AuthorName:  m.AuthorName,
		MessageID:   m.MessageID,
		ChannelID:   m.ChannelID,
		TaskCount:   count,
		Status:      taskreport.StatusPending,
		WeekStart:   taskreport.WeekStart(m.SentAt),
	}
	err = s.reports.Create(ctx, rep)
	if err == idb.ErrDuplicateReport {
		log.Info("Task report already exists for this message, duplicate event ignored")
		return
	}
	if err != nil {
		log.WithError(err).Error("Could not create task report, submission dropped")
		return
	}

	metrics.ReportsSubmitted.Inc()
	log.WithFields(logrus.Fields{
		"report_id":  rep.ID,
		"task_count": count,
	}).Info("Task report submitted")
}

// HandleClaim moves a PENDING report to REVIEWING on the first curator
// reaction. Later reactions, from the same or another curator, are ignored:
// the batch stays with the reviewer who claimed it.
func (s *TaskReportService) HandleClaim(ctx context.Context, com *community.Community, r *event.Reaction, reviewer *curator.Curator) {
	log := s.logger.WithFields(logrus.Fields{
		"community_id": com.ID,
		"message_id":   r.MessageID,
		"curator_id":   reviewer.ID,
	})

	rep, err := s.reports.GetByMessageID(ctx, r.MessageID)
	if err == idb.ErrReportNotFound {
		return
	}
	if err != nil {
		log.WithError(err).Error("Could not look up task report for reaction")
		return
	}

	switch rep.Status {
	case taskreport.StatusReviewing:
		log.WithField("reviewer", rep.ReviewerName.String).Info("Task report already under review, reaction ignored")
		return
	case taskreport.StatusVerified:
		log.Info("Task report already verified, reaction ignored")
		return
	}

	ok, err := s.reports.Claim(ctx, rep.ID, reviewer.ExternalID, reviewer.Name)
	if err != nil {
		log.WithError(err).Error("Could not claim task report")
		return
	}
	if !ok {
		log.Info("Task report claimed concurrently, reaction ignored")
		return
	}

	log.WithField("report_id", rep.ID).Info("Task report claimed for review")
}

// HandleVerdict closes a REVIEWING report from a curator's reply to the
// submission message. Only the claiming reviewer may issue the verdict; a
// reply from anyone else is rejected. The approved count is parsed from the
// reply text, defaulting to the full batch, and a scored activity event is
// emitted for the reviewer.
func (s *TaskReportService) HandleVerdict(ctx context.Context, com *community.Community, m *event.Message, reviewer *curator.Curator) {
	if !m.IsReply() {
		return
	}

	log := s.logger.WithFields(logrus.Fields{
		"community_id": com.ID,
		"message_id":   m.ReplyTo.MessageID,
	})

	rep, err := s.reports.GetByMessageID(ctx, m.ReplyTo.MessageID)
	if err == idb.ErrReportNotFound {
		return
	}
	if err != nil {
		log.WithError(err).Error("Could not look up task report for reply")
		return
	}

	switch rep.Status {
	case taskreport.StatusPending:
		log.Info("Reply to unclaimed task report ignored, a reaction must claim it first")
		return
	case taskreport.StatusVerified:
		log.Info("Task report already verified, reply ignored")
		return
	}

	if reviewer == nil {
		log.WithField("author_id", m.AuthorID).Debug("Reply from non-curator on reviewed report ignored")
		return
	}
	if !rep.ReviewerID.Valid || rep.ReviewerID.String != reviewer.ExternalID {
		log.WithFields(logrus.Fields{
			"reviewer":   rep.ReviewerName.String,
			"curator_id": reviewer.ID,
		}).Info("Verdict from a different curator rejected, report stays with its reviewer")
		return
	}

	approved := ParseApprovedCount(m.Text, rep.TaskCount)

	ok, err := s.reports.Verdict(ctx, rep.ID, reviewer.ExternalID, approved, m.SentAt)
	if err != nil {
		log.WithError(err).Error("Could not record verdict")
		return
	}
	if !ok {
		log.Info("Verdict raced with another transition, reply ignored")
		return
	}

	metrics.ReportsVerified.Inc()
	log.WithFields(logrus.Fields{
		"report_id":      rep.ID,
		"approved_count": approved,
		"task_count":     rep.TaskCount,
	}).Info("Task report verified")

	ev := &activity.Event{
		CuratorID:   reviewer.ID,
		CommunityID: com.ID,
		Kind:        activity.KindTaskVerification,
		Points:      approved,
		OccurredAt:  m.SentAt,
	}
	if err := s.activity.Create(ctx, ev); err != nil {
		// The verdict already stands; losing the score entry is not fatal.
		log.WithError(err).Error("Could not record task verification activity")
	}
}
