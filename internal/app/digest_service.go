// internal/app/digest_service.go
package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"curator_monitor_bot/internal/domain/community"
	"curator_monitor_bot/internal/domain/notify"
	"curator_monitor_bot/internal/domain/taskreport"

	"github.com/sirupsen/logrus"
)

// DigestService posts a weekly summary of verified task batches per curator
// into each community's staff channel.
type DigestService struct {
	communities community.Repository
	reports     taskreport.Repository
	notifier    notify.Notifier
	logger      *logrus.Entry
	now         func() time.Time
}

func NewDigestService(
	communities community.Repository,
	reports taskreport.Repository,
	notifier notify.Notifier,
	logger *logrus.Entry,
) *DigestService {
	return &DigestService{
		communities: communities,
		reports:     reports,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// SendWeeklyDigest summarizes the previous (completed) week.
func (s *DigestService) SendWeeklyDigest(ctx context.Context) error {
	weekStart := taskreport.WeekStart(s.now().AddDate(0, 0, -7))

	communities, err := s.communities.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active communities: %w", err)
	}

	for _, com := range communities {
		if com.NotifyChannelID == "" {
			continue
		}
		if err := s.digestCommunity(ctx, com, weekStart); err != nil {
			s.logger.WithError(err).WithField("community_id", com.ID).Error("Weekly digest failed for community")
		}
	}
	return nil
}

type reviewerTotals struct {
	name     string
	batches  int
	approved int
	tasks    int
}

func (s *DigestService) digestCommunity(ctx context.Context, com *community.Community, weekStart time.Time) error {
	reports, err := s.reports.ListVerifiedByWeek(ctx, com.ID, weekStart)
	if err != nil {
		return fmt.Errorf("failed to list verified reports: %w", err)
	}
	if len(reports) == 0 {
		s.logger.WithField("community_id", com.ID).Debug("No verified reports last week, digest skipped")
		return nil
	}

	totals := make(map[string]*reviewerTotals)
	for _, rep := range reports {
		if !rep.ReviewerID.Valid {
			continue
		}
		t, ok := totals[rep.ReviewerID.String]
		if !ok {
			t = &reviewerTotals{name: rep.ReviewerName.String}
			totals[rep.ReviewerID.String] = t
		}
		t.batches++
		t.tasks += rep.TaskCount
		if rep.ApprovedCount.Valid {
			t.approved += int(rep.ApprovedCount.Int64)
		}
	}

	lines := make([]string, 0, len(totals))
	for _, t := range totals {
		lines = append(lines, fmt.Sprintf("• %s — проверено партий: %d, одобрено задач: %d из %d", t.name, t.batches, t.approved, t.tasks))
	}
	sort.Strings(lines)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 Итоги проверки задач за неделю с %s:\n", weekStart.Format("02.01.2006")))
	b.WriteString(strings.Join(lines, "\n"))

	if err := s.notifier.Send(ctx, com.ExternalID, com.NotifyChannelID, b.String()); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"community_id": com.ID,
		"reviewers":    len(totals),
		"reports":      len(reports),
	}).Info("Weekly digest sent")
	return nil
}
