package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DigestRunner is the piece of the application layer the cron engine drives.
type DigestRunner interface {
	SendWeeklyDigest(ctx context.Context) error
}

// DigestScheduler runs the weekly verification digest on a cron spec.
type DigestScheduler struct {
	cronEngine *cron.Cron
	digest     DigestRunner
	logger     *logrus.Entry
	cronSpec   string
}

func NewDigestScheduler(digest DigestRunner, logger *logrus.Entry, cronSpec string) *DigestScheduler {
	return &DigestScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		digest:     digest,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *DigestScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpec, func() {
		s.logger.Info("Cron job triggered for weekly verification digest")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.digest.SendWeeklyDigest(ctx); err != nil {
			s.logger.WithError(err).Error("Weekly digest run failed")
		}
	})
	if err != nil {
		return err
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Digest scheduler started")
	return nil
}

func (s *DigestScheduler) Stop() {
	s.logger.Info("Stopping digest scheduler...")
	ctx := s.cronEngine.Stop() // Waits for a running job to finish.
	<-ctx.Done()
	s.logger.Info("Digest scheduler gracefully stopped")
}
