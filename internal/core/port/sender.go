package port

import (
	"context"
)

type TextSender interface {
	// SendMessage posts text to a channel. Long texts may be split by the transport.
	SendMessage(ctx context.Context, text, channel string) error
}
