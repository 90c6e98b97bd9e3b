// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"
	"strconv"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the notify.Notifier interface using the
// gopkg.in/telebot.v3 library. Communities map to supergroup chats; channels
// map to forum topics inside the chat.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// Send delivers text to a community's channel. A channel id that differs from
// the community id is treated as a forum topic thread.
func (tba *TelebotAdapter) Send(ctx context.Context, communityID, channelID, text string) error {
	chatID, err := strconv.ParseInt(communityID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid community id %q: %w", communityID, err)
	}

	opts := &telebot.SendOptions{}
	if channelID != "" && channelID != communityID {
		threadID, err := strconv.Atoi(channelID)
		if err != nil {
			return fmt.Errorf("invalid channel id %q: %w", channelID, err)
		}
		opts.ThreadID = threadID
	}

	_, err = tba.bot.Send(&telebot.Chat{ID: chatID}, text, opts)
	return err
}
