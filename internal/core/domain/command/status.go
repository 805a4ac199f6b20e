package command

import (
	"context"
	"fmt"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"regexp"
)

var statusPattern = regexp.MustCompile(`(?i)\bstatus of\s+([\w.\-/:]+)`)

// StatusOf is a free-form handler answering "status of <alarm>" anywhere in a message.
type StatusOf struct {
	alarms port.AlarmReporter
}

func NewStatusOf(alarms port.AlarmReporter) *StatusOf {
	return &StatusOf{alarms: alarms}
}

func (s *StatusOf) Match(message *domain.Message) bool {
	return statusPattern.MatchString(message.Text)
}

func (s *StatusOf) Respond(ctx context.Context, message *domain.Message, bot port.Bot) error {
	found := statusPattern.FindStringSubmatch(message.Text)
	if len(found) < 2 {
		return nil
	}

	name := found[1]

	alarms, err := s.alarms.QueryAlarmsByWatchlist(ctx, []string{name})
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	if len(alarms) == 0 {
		return bot.SendMessage(ctx, fmt.Sprintf("I couldn't find an alarm named %q", name), message.Channel)
	}

	return bot.SendMessage(ctx, domain.FormatAlarms(alarms), message.Channel)
}
