package command

import (
	"context"
	"fmt"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
)

// notifyAndReturnError tells the channel what went wrong and hands err back to the dispatcher.
func notifyAndReturnError(ctx context.Context, bot port.Bot, err error, message *domain.Message) error {
	sendErr := bot.SendMessage(ctx, fmt.Sprintf("error: %s", err), message.Channel)
	if sendErr != nil {
		log.Error().Err(sendErr).Str("channel", message.Channel).Msg(domain.ErrSendingReplyFailed.Error())
		return fmt.Errorf("%w: %w", err, sendErr)
	}

	return err
}

// commandArgs returns the words following the command name.
func commandArgs(bot port.Bot, message *domain.Message) []string {
	rest, _ := domain.StripName(bot.Name(), message.Text)
	return strings.Fields(domain.ParseCommandArgs(rest))
}

func orNone(text, none string) string {
	if strings.TrimSpace(text) == "" {
		return none
	}

	return text
}
