// internal/infra/scheduler/reminders.go
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"curator_monitor_bot/internal/domain/community"
	"curator_monitor_bot/internal/domain/notify"
	"curator_monitor_bot/internal/domain/settings"
	"curator_monitor_bot/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// minRearmDelay is the floor for reconciled timers: a record already overdue
// at startup still gets a short positive delay, never a zero or negative one.
const minRearmDelay = 1 * time.Second

const deliveryTimeout = 30 * time.Second

type reminderKey struct {
	communityID int64
	messageID   string
}

type pendingReminder struct {
	timer     Timer
	startedAt time.Time // when the tracked mention was observed, survives re-arms
	repeat    bool
	interval  time.Duration
	community *community.Community
	channelID string // channel of the mention message, referenced in the text
}

// ReminderScheduler owns the registry of delayed, cancellable reminder timers,
// keyed by (community, mention message). The registry is process-local and
// mutated only here; the persistent store remains the source of truth for
// resolved state across restarts.
type ReminderScheduler struct {
	mu      sync.Mutex
	pending map[reminderKey]*pendingReminder

	notifier notify.Notifier
	settings settings.Provider
	clock    Clock
	logger   *logrus.Entry
}

func NewReminderScheduler(
	notifier notify.Notifier,
	settingsProvider settings.Provider,
	clock Clock,
	logger *logrus.Entry,
) *ReminderScheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReminderScheduler{
		pending:  make(map[reminderKey]*pendingReminder),
		notifier: notifier,
		settings: settingsProvider,
		clock:    clock,
		logger:   logger,
	}
}

// Arm schedules a reminder for a freshly opened tracking record. Settings are
// read fresh on every arm so operators can change the delay without a restart.
func (s *ReminderScheduler) Arm(ctx context.Context, com *community.Community, channelID, messageID string, startedAt time.Time) {
	st, err := s.settings.Current(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Could not read settings, reminder not armed")
		return
	}
	if !st.CuratorNotifications {
		s.logger.WithField("message_id", messageID).Debug("Curator notifications disabled, reminder not armed")
		return
	}
	s.arm(com, channelID, messageID, startedAt, st.ReminderDelay, st.ReminderDelay, st.RepeatNotifications)
}

// Rearm schedules a reminder for a record that survived a restart. The first
// firing happens after the configured delay minus the time already elapsed,
// clamped to a minimum positive delay, so overdue records fire near-immediately
// while the reminder text still reports the true elapsed time from startedAt.
func (s *ReminderScheduler) Rearm(ctx context.Context, com *community.Community, channelID, messageID string, startedAt time.Time) {
	st, err := s.settings.Current(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Could not read settings, reminder not re-armed")
		return
	}
	if !st.CuratorNotifications {
		s.logger.WithField("message_id", messageID).Debug("Curator notifications disabled, reminder not re-armed")
		return
	}
	remaining := st.ReminderDelay - s.clock.Now().Sub(startedAt)
	if remaining < minRearmDelay {
		remaining = minRearmDelay
	}
	s.arm(com, channelID, messageID, startedAt, remaining, st.ReminderDelay, st.RepeatNotifications)
}

func (s *ReminderScheduler) arm(com *community.Community, channelID, messageID string, startedAt time.Time, firstDelay, interval time.Duration, repeat bool) {
	key := reminderKey{communityID: com.ID, messageID: messageID}

	s.mu.Lock()
	defer s.mu.Unlock()

	// A duplicate inbound event may arm the same key twice. The old timer is
	// stopped first so the key never carries two live handles.
	if old, ok := s.pending[key]; ok {
		old.timer.Stop()
		delete(s.pending, key)
		s.logger.WithField("message_id", messageID).Info("Existing reminder replaced on re-arm")
	}

	p := &pendingReminder{
		startedAt: startedAt,
		repeat:    repeat,
		interval:  interval,
		community: com,
		channelID: channelID,
	}
	p.timer = s.clock.AfterFunc(firstDelay, func() { s.fire(key, p) })
	s.pending[key] = p

	s.logger.WithFields(logrus.Fields{
		"community_id": com.ID,
		"message_id":   messageID,
		"first_delay":  firstDelay.String(),
		"repeat":       repeat,
	}).Debug("Reminder armed")
}

// Cancel stops any pending reminder for the key. Cancelling a key with no
// entry is a safe no-op: the timer may have already fired (single-shot) or the
// record may never have been armed.
func (s *ReminderScheduler) Cancel(communityID int64, messageID string) {
	key := reminderKey{communityID: communityID, messageID: messageID}

	s.mu.Lock()
	p, ok := s.pending[key]
	if ok {
		p.timer.Stop()
		delete(s.pending, key)
	}
	s.mu.Unlock()

	if !ok {
		s.logger.WithField("message_id", messageID).Debug("Cancel for unknown reminder key, nothing to do")
		return
	}
	metrics.RemindersCancelled.Inc()
	s.logger.WithFields(logrus.Fields{
		"community_id": communityID,
		"message_id":   messageID,
	}).Info("Pending reminder cancelled")
}

// Shutdown stops all outstanding timers. Called on graceful shutdown only;
// open records are picked up again by the startup reconciler.
func (s *ReminderScheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, key)
	}
}

func (s *ReminderScheduler) fire(key reminderKey, p *pendingReminder) {
	s.mu.Lock()
	current, ok := s.pending[key]
	if !ok || current != p {
		// Cancelled or superseded between expiry and this callback.
		s.mu.Unlock()
		return
	}
	if p.repeat {
		p.timer = s.clock.AfterFunc(p.interval, func() { s.fire(key, p) })
	} else {
		delete(s.pending, key)
	}
	s.mu.Unlock()

	// Elapsed time comes from startedAt, not the configured delay, so a timer
	// that ran late or was re-armed after a restart still reports accurately.
	elapsed := s.clock.Now().Sub(p.startedAt)
	text := reminderText(p.channelID, elapsed)

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()
	if err := s.notifier.Send(ctx, p.community.ExternalID, p.community.NotifyChannelID, text); err != nil {
		// Delivery failure must never propagate into the timer machinery; the
		// record simply stays open until resolved or the operator fixes the
		// destination channel.
		metrics.ReminderDeliveryErrors.Inc()
		s.logger.WithError(err).WithFields(logrus.Fields{
			"community_id": key.communityID,
			"message_id":   key.messageID,
		}).Error("Reminder delivery failed")
		return
	}

	metrics.RemindersSent.Inc()
	s.logger.WithFields(logrus.Fields{
		"community_id": key.communityID,
		"message_id":   key.messageID,
		"elapsed":      elapsed.String(),
	}).Info("Reminder delivered")
}

func reminderText(channelID string, elapsed time.Duration) string {
	return fmt.Sprintf("⏰ Сообщение в канале %s ждёт ответа куратора уже %s.", channelID, formatElapsed(elapsed))
}

func formatElapsed(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes < 1 {
		return "меньше минуты"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	if rest := minutes % 60; rest != 0 {
		return fmt.Sprintf("%d ч %d мин", hours, rest)
	}
	return fmt.Sprintf("%d ч", hours)
}
