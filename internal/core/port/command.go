package port

import (
	"context"
	"opsbot/internal/core/domain"

	"github.com/gofrs/uuid/v5"
)

// CommandFunc runs a named command. roles holds the caller's resolved roles, nil when the
// command is not role gated.
type CommandFunc func(ctx context.Context, message *domain.Message, bot Bot, roles []string) error

// HandlerFunc runs a free-form handler whose predicate matched.
type HandlerFunc func(ctx context.Context, message *domain.Message, bot Bot) error

// Bot is the view of the dispatcher that command and handler logic receives.
type Bot interface {
	// Name returns the token messages have to start with to address the bot.
	Name() string
	// SendMessage posts text to the given channel.
	SendMessage(ctx context.Context, text, channel string) error
	// AddHandler registers a handler evaluated on every inbound message, addressed to the bot
	// or not, so handlers can listen to free-form conversation.
	AddHandler(match domain.Predicate, logic HandlerFunc) uuid.UUID
	// AddOneOffHandler registers a handler evaluated on the next inbound message only.
	AddOneOffHandler(match domain.Predicate, logic HandlerFunc) uuid.UUID
	// RemoveHandler drops a persistent handler, reporting whether it existed.
	RemoveHandler(id uuid.UUID) bool
}

type Authorizer interface {
	// Roles resolves the roles held by the author of a message.
	Roles(ctx context.Context, message *domain.Message) ([]string, error)
}

type CommandLister interface {
	// ListCommands returns every registered alias in registration order.
	ListCommands() []string
}
