package handler

import (
	"context"
	"opsbot/internal/core/domain"
	"strconv"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

type Telegram struct {
	processor MessageProcessor
	timeout   time.Duration
}

func NewTelegram(processor MessageProcessor, timeout time.Duration) *Telegram {
	return &Telegram{processor: processor, timeout: timeout}
}

// Handle is registered as the bot's default handler and sees every update.
func (t *Telegram) Handle(_ context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	if update.Message.From != nil && update.Message.From.IsBot {
		return
	}

	log.Debug().Str("message", update.Message.Text).Msg("received message")

	dispatch(t.processor, t.timeout, &domain.Message{
		Text:      update.Message.Text,
		User:      telegramUser(update.Message.From),
		Channel:   strconv.FormatInt(update.Message.Chat.ID, 10),
		Timestamp: strconv.Itoa(update.Message.Date),
	})
}

func telegramUser(user *models.User) string {
	if user == nil {
		return ""
	}

	return strconv.FormatInt(user.ID, 10)
}
