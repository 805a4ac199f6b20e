package handler

import (
	"context"
	"opsbot/internal/core/domain"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

type Acknowledger interface {
	Ack(req socketmode.Request, payload ...interface{})
}

// Slack turns Socket Mode events into domain messages.
type Slack struct {
	processor MessageProcessor
	timeout   time.Duration
}

func NewSlack(processor MessageProcessor, timeout time.Duration) *Slack {
	return &Slack{processor: processor, timeout: timeout}
}

// Listen consumes events until ctx is done or the channel closes.
func (s *Slack) Listen(ctx context.Context, events <-chan socketmode.Event, ack Acknowledger) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			s.Handle(evt, ack)
		}
	}
}

func (s *Slack) Handle(evt socketmode.Event, ack Acknowledger) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		log.Info().Msg("connecting to slack")
		return
	case socketmode.EventTypeConnected:
		log.Info().Msg("connected to slack")
		return
	case socketmode.EventTypeConnectionError:
		log.Warn().Msg("slack connection failed, retrying")
		return
	case socketmode.EventTypeEventsAPI:
	default:
		log.Debug().Str("type", string(evt.Type)).Msg("ignoring event")
		return
	}

	if evt.Request != nil {
		ack.Ack(*evt.Request)
	}

	eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok {
		log.Debug().Msg("unexpected events api payload")
		return
	}

	message, ok := toMessage(eventsAPIEvent.InnerEvent)
	if !ok {
		return
	}

	log.Debug().Str("channel", message.Channel).Str("message", message.Text).Msg("received message")

	dispatch(s.processor, s.timeout, message)
}

// toMessage keeps plain user messages. Edits, joins and other bots' posts are dropped.
func toMessage(inner slackevents.EventsAPIInnerEvent) (*domain.Message, bool) {
	ev, ok := inner.Data.(*slackevents.MessageEvent)
	if !ok {
		return nil, false
	}

	if ev.SubType != "" || ev.BotID != "" || ev.User == "" {
		return nil, false
	}

	return &domain.Message{
		Text:      ev.Text,
		User:      ev.User,
		Channel:   ev.Channel,
		Timestamp: ev.TimeStamp,
	}, true
}
