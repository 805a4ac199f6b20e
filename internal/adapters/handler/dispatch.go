package handler

import (
	"context"
	"opsbot/internal/core/domain"
	"time"

	"github.com/rs/zerolog/log"
)

type MessageProcessor interface {
	OnMessage(ctx context.Context, message *domain.Message) error
}

// dispatch hands a message to the processor on its own goroutine so the transport loop never
// waits on command logic. A zero timeout leaves the dispatch unbounded.
func dispatch(processor MessageProcessor, timeout time.Duration, message *domain.Message) {
	go func() {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		err := processor.OnMessage(ctx, message)
		if err != nil {
			log.Err(err).
				Str("channel", message.Channel).
				Str("user", message.User).
				Msg("failed to respond to message")
		}
	}()
}
