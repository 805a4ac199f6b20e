package sender

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

// SlackMessageLimit keeps each post under the length Slack renders without truncation.
const SlackMessageLimit = 4000

type SlackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

type Slack struct {
	client SlackClient
}

func NewSlack(client SlackClient) *Slack {
	return &Slack{client: client}
}

func (s *Slack) SendMessage(ctx context.Context, text, channel string) error {
	for _, part := range chunk(text, SlackMessageLimit) {
		_, ts, err := s.client.PostMessageContext(ctx, channel, slack.MsgOptionText(part, false))
		if err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("failed to post slack message")
			return err
		}

		log.Debug().Str("channel", channel).Str("ts", ts).Msg("posted message")
	}

	return nil
}
