package command

import (
	"context"
	"errors"
	"fmt"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrMissingArgument = errors.New("missing argument")

// Report answers alarm questions: overall health, alarms by state and by name prefix.
type Report struct {
	alarms port.AlarmReporter
}

func NewReport(alarms port.AlarmReporter) *Report {
	return &Report{alarms: alarms}
}

// Health sends the alarm count per state. "status of <alarm>" is left to the StatusOf handler.
func (r *Report) Health(ctx context.Context, message *domain.Message, bot port.Bot, _ []string) error {
	if args := commandArgs(bot, message); len(args) > 0 && strings.EqualFold(args[0], "of") {
		log.Debug().Msg("status of an alarm, leaving it to the handler")
		return nil
	}

	report, err := r.alarms.HealthReportByState(ctx)
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	return bot.SendMessage(ctx, report, message.Channel)
}

// ByState lists alarms in the requested state, ALARM when none is given.
func (r *Report) ByState(ctx context.Context, message *domain.Message, bot port.Bot, _ []string) error {
	state, err := stateArgument(bot, message)
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	log.Debug().Str("state", string(state)).Msg("listing alarms")

	text, err := r.alarms.QueryAlarmsByStateReadably(ctx, state)
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	return bot.SendMessage(ctx, orNone(text, fmt.Sprintf("no alarms in state %s", state)), message.Channel)
}

func (r *Report) Count(ctx context.Context, message *domain.Message, bot port.Bot, _ []string) error {
	state, err := stateArgument(bot, message)
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	count, err := r.alarms.CountAlarmsByState(ctx, state)
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	var plural string
	if count != 1 {
		plural = "s"
	}

	return bot.SendMessage(ctx, fmt.Sprintf("%d alarm%s in state %s", count, plural, state), message.Channel)
}

func (r *Report) Prefix(ctx context.Context, message *domain.Message, bot port.Bot, _ []string) error {
	args := commandArgs(bot, message)
	if len(args) == 0 {
		return notifyAndReturnError(ctx, bot, fmt.Errorf("%w: alarm name prefix", ErrMissingArgument), message)
	}

	text, err := r.alarms.QueryAlarmsByPrefixReadably(ctx, args[0])
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	return bot.SendMessage(ctx, orNone(text, fmt.Sprintf("no alarms starting with %q", args[0])), message.Channel)
}

func stateArgument(bot port.Bot, message *domain.Message) (domain.AlarmState, error) {
	args := commandArgs(bot, message)
	if len(args) == 0 {
		return domain.StateAlarm, nil
	}

	joined := args[0]
	if len(args) > 1 {
		joined += " " + args[1]
	}

	if state, ok := domain.ParseAlarmState(joined); ok {
		return state, nil
	}

	if state, ok := domain.ParseAlarmState(args[0]); ok {
		return state, nil
	}

	return "", fmt.Errorf("unknown alarm state %q, use ok, alarm or insufficient", args[0])
}
