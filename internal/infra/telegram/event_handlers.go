// internal/infra/telegram/event_handlers.go
package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	"curator_monitor_bot/internal/domain/event"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// Dispatcher is the slice of the application layer the event adapter drives.
type Dispatcher interface {
	OnMessage(ctx context.Context, m *event.Message)
	OnReaction(ctx context.Context, r *event.Reaction)
}

// RegisterEventHandlers wires telebot updates into the tracking engine,
// translating them to platform-agnostic events. Each event is dispatched on
// its own goroutine so a slow store or notifier call never blocks the poller
// loop for unrelated events.
//
// telebot carries message_reaction updates on its update stream but has no
// endpoint for them, so the bot's poller is wrapped and reactions are relayed
// from there instead of a Handle callback. Must be called before Bot.Start.
func RegisterEventHandlers(ctx context.Context, b *telebot.Bot, dispatcher Dispatcher, baseLogger *logrus.Entry) {
	b.Handle(telebot.OnText, func(c telebot.Context) error {
		m := c.Message()
		if m == nil || m.Chat == nil || m.Private() {
			return nil
		}
		go dispatcher.OnMessage(ctx, toMessageEvent(m))
		return nil
	})

	b.Poller = telebot.NewMiddlewarePoller(b.Poller, func(u *telebot.Update) bool {
		return relayReaction(ctx, dispatcher, baseLogger, u)
	})

	baseLogger.Info("Event handlers registered")
}

// relayReaction routes a message_reaction update to the dispatcher and reports
// whether the update should continue into the bot's own handler dispatch.
// Non-reaction updates pass through untouched.
func relayReaction(ctx context.Context, d Dispatcher, logger *logrus.Entry, u *telebot.Update) bool {
	mr := u.MessageReaction
	if mr == nil {
		return true
	}
	if mr.Chat == nil || mr.User == nil {
		logger.Debug("Reaction update without chat or user ignored")
		return false
	}
	go d.OnReaction(ctx, toReactionEvent(mr))
	return false
}

func toMessageEvent(m *telebot.Message) *event.Message {
	ev := &event.Message{
		CommunityID: strconv.FormatInt(m.Chat.ID, 10),
		ChannelID:   channelOf(m),
		MessageID:   strconv.Itoa(m.ID),
		Text:        m.Text,
		SentAt:      m.Time(),
	}
	if m.Sender != nil {
		ev.AuthorID = strconv.FormatInt(m.Sender.ID, 10)
		ev.AuthorName = strings.TrimSpace(m.Sender.FirstName + " " + m.Sender.LastName)
	}
	// Telegram has no native roles; @-mentions stand in for role mentions and
	// the detector matches them against the community's configured role id.
	for _, e := range m.Entities {
		if e.Type == telebot.EntityMention {
			ev.RoleMentions = append(ev.RoleMentions, m.EntityText(e))
		}
	}
	if m.ReplyTo != nil {
		ev.ReplyTo = toMessageEvent(m.ReplyTo)
	}
	return ev
}

func toReactionEvent(mr *telebot.MessageReaction) *event.Reaction {
	ev := &event.Reaction{
		CommunityID: strconv.FormatInt(mr.Chat.ID, 10),
		ChannelID:   strconv.FormatInt(mr.Chat.ID, 10),
		MessageID:   strconv.Itoa(mr.MessageID),
		UserID:      strconv.FormatInt(mr.User.ID, 10),
		UserName:    strings.TrimSpace(mr.User.FirstName + " " + mr.User.LastName),
		ReactedAt:   time.Unix(mr.DateUnixtime, 0),
	}
	if len(mr.NewReaction) > 0 {
		ev.Emoji = mr.NewReaction[0].Emoji
	}
	return ev
}

// channelOf maps forum topics to channel ids; messages outside a topic use the
// chat id itself.
func channelOf(m *telebot.Message) string {
	if m.ThreadID != 0 {
		return strconv.Itoa(m.ThreadID)
	}
	return strconv.FormatInt(m.Chat.ID, 10)
}
