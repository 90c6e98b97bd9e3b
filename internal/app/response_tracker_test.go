package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"curator_monitor_bot/internal/domain/community"
	"curator_monitor_bot/internal/domain/curator"
	"curator_monitor_bot/internal/domain/event"
	"curator_monitor_bot/internal/domain/settings"
	"curator_monitor_bot/internal/domain/tracking"
	idb "curator_monitor_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// ----- Fakes -----

type fakeSettings struct {
	s   settings.Settings
	err error
}

func (f *fakeSettings) Current(ctx context.Context) (*settings.Settings, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := f.s
	return &c, nil
}

type fakeTrackingRepo struct {
	byMessage map[string]*tracking.Record
	nextID    int64
	createErr error
}

func newFakeTrackingRepo() *fakeTrackingRepo {
	return &fakeTrackingRepo{byMessage: make(map[string]*tracking.Record)}
}

func (r *fakeTrackingRepo) Create(ctx context.Context, rec *tracking.Record) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.byMessage[rec.MentionMessageID]; ok {
		return idb.ErrDuplicateTrackingRecord
	}
	r.nextID++
	rec.ID = r.nextID
	stored := *rec
	r.byMessage[rec.MentionMessageID] = &stored
	return nil
}

func (r *fakeTrackingRepo) GetByMessageID(ctx context.Context, mentionMessageID string) (*tracking.Record, error) {
	rec, ok := r.byMessage[mentionMessageID]
	if !ok {
		return nil, idb.ErrTrackingRecordNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeTrackingRepo) Resolve(ctx context.Context, id int64, responderID int64, responseMessageID string, respondedAt time.Time, kind tracking.ResponseKind, latencySeconds int64) (bool, error) {
	for _, rec := range r.byMessage {
		if rec.ID != id {
			continue
		}
		if rec.ResponderID.Valid {
			return false, nil
		}
		rec.ResponderID.Int64, rec.ResponderID.Valid = responderID, true
		rec.ResponseMessage.String, rec.ResponseMessage.Valid = responseMessageID, true
		rec.RespondedAt.Time, rec.RespondedAt.Valid = respondedAt, true
		rec.Kind.String, rec.Kind.Valid = string(kind), true
		rec.LatencySeconds.Int64, rec.LatencySeconds.Valid = latencySeconds, true
		return true, nil
	}
	return false, nil
}

func (r *fakeTrackingRepo) ListOpen(ctx context.Context) ([]*tracking.Record, error) {
	open := make([]*tracking.Record, 0)
	for _, rec := range r.byMessage {
		if !rec.ResponderID.Valid {
			copied := *rec
			open = append(open, &copied)
		}
	}
	return open, nil
}

type armCall struct {
	communityID int64
	channelID   string
	messageID   string
	startedAt   time.Time
}

type fakeScheduler struct {
	arms    []armCall
	rearms  []armCall
	cancels []string
}

func (s *fakeScheduler) Arm(ctx context.Context, com *community.Community, channelID, messageID string, startedAt time.Time) {
	s.arms = append(s.arms, armCall{com.ID, channelID, messageID, startedAt})
}

func (s *fakeScheduler) Rearm(ctx context.Context, com *community.Community, channelID, messageID string, startedAt time.Time) {
	s.rearms = append(s.rearms, armCall{com.ID, channelID, messageID, startedAt})
}

func (s *fakeScheduler) Cancel(communityID int64, messageID string) {
	s.cancels = append(s.cancels, fmt.Sprintf("%d:%s", communityID, messageID))
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func testCommunity() *community.Community {
	return &community.Community{
		ID:              1,
		ExternalID:      "-1001",
		Title:           "Test Community",
		CuratorRoleID:   "@curators",
		TaskChannelID:   "42",
		NotifyChannelID: "99",
		IsActive:        true,
	}
}

func testCurator() *curator.Curator {
	return &curator.Curator{ID: 7, CommunityID: 1, ExternalID: "777", Name: "Аня", IsActive: true}
}

// ----- Tests -----

func TestOpenCreatesRecordAndArmsReminder(t *testing.T) {
	repo := newFakeTrackingRepo()
	sched := &fakeScheduler{}
	tracker := NewResponseTracker(repo, sched, testLogger())

	com := testCommunity()
	sentAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	tracker.Open(context.Background(), com, &event.Message{
		CommunityID: com.ExternalID, ChannelID: "10", MessageID: "m1", Text: "помогите", SentAt: sentAt,
	})

	rec, err := repo.GetByMessageID(context.Background(), "m1")
	if err != nil {
		t.Fatalf("expected record to be created: %v", err)
	}
	if rec.Resolved() {
		t.Error("fresh record must be open")
	}
	if len(sched.arms) != 1 {
		t.Fatalf("expected 1 arm call, got %d", len(sched.arms))
	}
	if sched.arms[0].messageID != "m1" || !sched.arms[0].startedAt.Equal(sentAt) {
		t.Errorf("arm call = %+v", sched.arms[0])
	}
}

func TestOpenDuplicateIsSuccessWithoutSecondArm(t *testing.T) {
	repo := newFakeTrackingRepo()
	sched := &fakeScheduler{}
	tracker := NewResponseTracker(repo, sched, testLogger())

	com := testCommunity()
	m := &event.Message{CommunityID: com.ExternalID, ChannelID: "10", MessageID: "m1", SentAt: time.Now()}
	tracker.Open(context.Background(), com, m)
	tracker.Open(context.Background(), com, m)

	if len(repo.byMessage) != 1 {
		t.Errorf("expected 1 record, got %d", len(repo.byMessage))
	}
	if len(sched.arms) != 1 {
		t.Errorf("expected 1 arm call for duplicate open, got %d", len(sched.arms))
	}
}

func TestOpenPersistenceFailureIsDropped(t *testing.T) {
	repo := newFakeTrackingRepo()
	repo.createErr = errors.New("store down")
	sched := &fakeScheduler{}
	tracker := NewResponseTracker(repo, sched, testLogger())

	tracker.Open(context.Background(), testCommunity(), &event.Message{MessageID: "m1", SentAt: time.Now()})

	if len(sched.arms) != 0 {
		t.Error("no reminder must be armed when the record was not persisted")
	}
}

func TestResolveComputesLatencyAndCancels(t *testing.T) {
	repo := newFakeTrackingRepo()
	sched := &fakeScheduler{}
	tracker := NewResponseTracker(repo, sched, testLogger())

	com := testCommunity()
	mentionedAt := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	tracker.Open(context.Background(), com, &event.Message{CommunityID: com.ExternalID, ChannelID: "10", MessageID: "m1", SentAt: mentionedAt})

	respondedAt := mentionedAt.Add(310 * time.Second)
	tracker.Resolve(context.Background(), "m1", testCurator(), "m2", respondedAt, tracking.KindReply)

	rec, _ := repo.GetByMessageID(context.Background(), "m1")
	if !rec.Resolved() {
		t.Fatal("record must be resolved")
	}
	if rec.LatencySeconds.Int64 != 310 {
		t.Errorf("latency = %d, want 310", rec.LatencySeconds.Int64)
	}
	if rec.Kind.String != string(tracking.KindReply) {
		t.Errorf("kind = %q", rec.Kind.String)
	}
	if rec.ResponseMessage.String != "m2" {
		t.Errorf("response message = %q", rec.ResponseMessage.String)
	}
	if len(sched.cancels) != 1 || sched.cancels[0] != "1:m1" {
		t.Errorf("cancel calls = %v", sched.cancels)
	}
}

func TestResolveLatencyFloorIsOneSecond(t *testing.T) {
	repo := newFakeTrackingRepo()
	sched := &fakeScheduler{}
	tracker := NewResponseTracker(repo, sched, testLogger())

	com := testCommunity()
	at := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	tracker.Open(context.Background(), com, &event.Message{CommunityID: com.ExternalID, MessageID: "m1", SentAt: at})
	tracker.Resolve(context.Background(), "m1", testCurator(), "m2", at, tracking.KindReply)

	rec, _ := repo.GetByMessageID(context.Background(), "m1")
	if rec.LatencySeconds.Int64 != 1 {
		t.Errorf("latency = %d, want floor of 1", rec.LatencySeconds.Int64)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	repo := newFakeTrackingRepo()
	sched := &fakeScheduler{}
	tracker := NewResponseTracker(repo, sched, testLogger())

	com := testCommunity()
	at := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	tracker.Open(context.Background(), com, &event.Message{CommunityID: com.ExternalID, MessageID: "m1", SentAt: at})

	first := testCurator()
	tracker.Resolve(context.Background(), "m1", first, "m2", at.Add(30*time.Second), tracking.KindReply)

	second := &curator.Curator{ID: 8, CommunityID: 1, ExternalID: "888", Name: "Боря", IsActive: true}
	tracker.Resolve(context.Background(), "m1", second, "m3", at.Add(60*time.Second), tracking.KindReply)

	rec, _ := repo.GetByMessageID(context.Background(), "m1")
	if rec.ResponderID.Int64 != first.ID {
		t.Errorf("responder = %d, want first curator %d", rec.ResponderID.Int64, first.ID)
	}
	if rec.LatencySeconds.Int64 != 30 {
		t.Errorf("latency = %d, want 30 from the first resolution", rec.LatencySeconds.Int64)
	}
	if len(sched.cancels) != 1 {
		t.Errorf("cancel must only happen on the winning resolution, got %d calls", len(sched.cancels))
	}
}

func TestResolveUnknownMessageIsNoop(t *testing.T) {
	repo := newFakeTrackingRepo()
	sched := &fakeScheduler{}
	tracker := NewResponseTracker(repo, sched, testLogger())

	tracker.Resolve(context.Background(), "ghost", testCurator(), "m2", time.Now(), tracking.KindReply)

	if len(sched.cancels) != 0 {
		t.Error("resolving an untracked message must not cancel anything")
	}
}

func TestResolveByReactionSynthesizesMessageID(t *testing.T) {
	repo := newFakeTrackingRepo()
	sched := &fakeScheduler{}
	tracker := NewResponseTracker(repo, sched, testLogger())

	com := testCommunity()
	at := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	tracker.Open(context.Background(), com, &event.Message{CommunityID: com.ExternalID, MessageID: "m1", SentAt: at})
	tracker.Resolve(context.Background(), "m1", testCurator(), "", at.Add(5*time.Second), tracking.KindReaction)

	rec, _ := repo.GetByMessageID(context.Background(), "m1")
	want := "reaction:m1:777"
	if rec.ResponseMessage.String != want {
		t.Errorf("synthesized response message id = %q, want %q", rec.ResponseMessage.String, want)
	}
	if rec.Kind.String != string(tracking.KindReaction) {
		t.Errorf("kind = %q", rec.Kind.String)
	}
}
