package telegram

import (
	"MindProfile/internal/domain/service/share"
	"context"
	"fmt"

	tgbot "github.com/go-telegram/bot"
)

// chatSharer shares by posting the payload into the chat, from where the
// user can forward it.
type chatSharer struct {
	bot    Sender
	chatID int64
}

func (s *chatSharer) Share(ctx context.Context, p share.Payload) error {
	text := p.Text
	if p.URL != "" {
		text = fmt.Sprintf("%s\n\n%s", p.Text, p.URL)
	}
	_, err := s.bot.SendMessage(ctx, &tgbot.SendMessageParams{ChatID: s.chatID, Text: text})
	return err
}
