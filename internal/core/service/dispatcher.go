package service

import (
	"context"
	"fmt"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/domain/command"
	"opsbot/internal/core/domain/handler"
	"opsbot/internal/core/port"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	unknownCommandNotice = "I don't know the command %q. Say \"%s help\" to see what I can do."
	deniedNotice         = "Sorry, you are not allowed to run %q."
)

type CommandResolver interface {
	Resolve(name string) (*command.Spec, error)
}

type DispatcherParams struct {
	Name       string
	Greeting   string
	Commands   CommandResolver
	Authorizer port.Authorizer
	Sender     port.TextSender
	// Tracker optionally caps the commands run per channel and day.
	Tracker    Tracker
}

// Dispatcher routes inbound messages to commands and free-form handlers. It is safe to call
// OnMessage from many goroutines at once, one per inbound message.
type Dispatcher struct {
	name       string
	greeting   string
	commands   CommandResolver
	authorizer port.Authorizer
	sender     port.TextSender
	tracker    Tracker

	handlers *handler.List
	oneOffs  *handler.List
}

func NewDispatcher(p DispatcherParams) *Dispatcher {
	authorizer := p.Authorizer
	if authorizer == nil {
		authorizer = NoRoles{}
	}

	greeting := p.Greeting
	if greeting == "" {
		greeting = fmt.Sprintf("Hi! I'm %s. Say \"%s help\" to see what I can do.", p.Name, p.Name)
	}

	return &Dispatcher{
		name:       p.Name,
		greeting:   greeting,
		commands:   p.Commands,
		authorizer: authorizer,
		sender:     p.Sender,
		tracker:    p.Tracker,
		handlers:   &handler.List{},
		oneOffs:    &handler.List{},
	}
}

func (d *Dispatcher) Name() string {
	return d.name
}

func (d *Dispatcher) SendMessage(ctx context.Context, text, channel string) error {
	return d.sender.SendMessage(ctx, text, channel)
}

func (d *Dispatcher) AddHandler(match domain.Predicate, logic port.HandlerFunc) uuid.UUID {
	return d.handlers.Add(match, logic)
}

func (d *Dispatcher) AddOneOffHandler(match domain.Predicate, logic port.HandlerFunc) uuid.UUID {
	return d.oneOffs.Add(match, logic)
}

func (d *Dispatcher) RemoveHandler(id uuid.UUID) bool {
	return d.handlers.Remove(id)
}

// OnMessage processes one inbound message. Handlers see every message, addressed or not;
// the command path only runs for messages starting with the bot name. The returned error
// comes from the command path only, user facing notices have already been sent by then.
//
// Handlers are picked before anything runs: a one-off handler registered by this message's
// command is evaluated against the next message.
func (d *Dispatcher) OnMessage(ctx context.Context, message *domain.Message) error {
	persistent := d.handlers.Snapshot()
	oneOffs := d.oneOffs.Drain()

	var g errgroup.Group

	g.Go(func() error {
		return d.dispatchCommand(ctx, message)
	})

	g.Go(func() error {
		d.runHandlers(ctx, message, persistent, "persistent")
		d.runHandlers(ctx, message, oneOffs, "one-off")
		return nil
	})

	return g.Wait()
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, message *domain.Message) error {
	rest, ok := domain.StripName(d.name, message.Text)
	if !ok {
		return nil
	}

	l := log.With().
		Str("channel", message.Channel).
		Str("user", message.User).
		Logger()

	if rest == "" {
		l.Debug().Msg("greeting")

		err := d.sender.SendMessage(ctx, d.greeting, message.Channel)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrSendingReplyFailed, err)
		}

		return nil
	}

	name := domain.ParseCommand(rest)
	l = l.With().Str("command", name).Logger()

	spec, err := d.commands.Resolve(name)
	if err != nil {
		l.Debug().Msg("no handler for command")
		d.notify(ctx, fmt.Sprintf(unknownCommandNotice, name, d.name), message.Channel)

		return fmt.Errorf("%w: %s", domain.ErrUnknownCommand, name)
	}

	var roles []string
	if len(spec.Roles) > 0 {
		roles, err = d.authorizer.Roles(ctx, message)
		if err != nil {
			l.Error().Err(err).Msg("failed to resolve roles")
			d.notify(ctx, fmt.Sprintf(deniedNotice, name), message.Channel)

			return fmt.Errorf("%w: %s: %w", domain.ErrAuthorizationDenied, name, err)
		}

		if !domain.Satisfies(spec.Roles, roles) {
			l.Info().Strs("roles", roles).Msg("access denied")
			d.notify(ctx, fmt.Sprintf(deniedNotice, name), message.Channel)

			return fmt.Errorf("%w: %s", domain.ErrAuthorizationDenied, name)
		}
	}

	if d.tracker != nil && !d.tracker.TryUse(ctx, message.Channel) {
		l.Info().Msg("daily command limit reached")
		return fmt.Errorf("%w: %s", domain.ErrLimitExceeded, name)
	}

	l.Info().Msg("handling request")

	err = spec.Logic(ctx, message, d, roles)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrCommandFailed, name, err)
	}

	return nil
}

// runHandlers invokes every matching entry in order. A failing handler is logged and the
// scan moves on.
func (d *Dispatcher) runHandlers(ctx context.Context, message *domain.Message, entries []handler.Entry, kind string) {
	for _, entry := range entries {
		if !entry.Match(message) {
			continue
		}

		log.Debug().Str("handler", entry.ID.String()).Str("kind", kind).Msg("handler matched")

		err := entry.Logic(ctx, message, d)
		if err != nil {
			log.Error().Err(err).
				Str("handler", entry.ID.String()).
				Str("kind", kind).
				Str("channel", message.Channel).
				Msg("handler failed")
		}
	}
}

func (d *Dispatcher) notify(ctx context.Context, text, channel string) {
	err := d.sender.SendMessage(ctx, text, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg(domain.ErrSendingReplyFailed.Error())
	}
}
