package command

import (
	"context"
	"fmt"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const (
	confirmClear  = "yes"
	confirmWindow = 5 * time.Minute
)

// Watchlist keeps a per channel list of alarm names, persisted across restarts.
type Watchlist struct {
	alarms port.AlarmReporter
	store  port.Persister
	now    func() time.Time

	mu sync.Mutex
}

func NewWatchlist(alarms port.AlarmReporter, store port.Persister) *Watchlist {
	return &Watchlist{alarms: alarms, store: store, now: time.Now}
}

func watchlistKey(channel string) string {
	return "watchlist-" + channel
}

// Names returns the alarms watched in channel, nil when nothing was saved yet.
func (w *Watchlist) Names(channel string) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.load(channel)
}

func (w *Watchlist) load(channel string) ([]string, error) {
	var names []string

	err := w.store.Recover(watchlistKey(channel), &names)
	if err != nil {
		return nil, fmt.Errorf("failed to load watchlist: %w", err)
	}

	return names, nil
}

func (w *Watchlist) save(channel string, names []string) error {
	err := w.store.Save(watchlistKey(channel), names)
	if err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}

	return nil
}

func (w *Watchlist) Watch(ctx context.Context, message *domain.Message, bot port.Bot, _ []string) error {
	args := commandArgs(bot, message)
	if len(args) == 0 {
		return notifyAndReturnError(ctx, bot, fmt.Errorf("%w: alarm names to watch", ErrMissingArgument), message)
	}

	w.mu.Lock()
	names, err := w.load(message.Channel)
	if err == nil {
		for _, name := range args {
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}

		err = w.save(message.Channel, names)
	}
	w.mu.Unlock()

	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	log.Info().Str("channel", message.Channel).Strs("alarms", args).Msg("watching alarms")

	return bot.SendMessage(ctx, fmt.Sprintf("watching %d alarm(s) in this channel", len(names)), message.Channel)
}

// Unwatch removes the named alarms. "unwatch all" asks for confirmation from the same user first.
func (w *Watchlist) Unwatch(ctx context.Context, message *domain.Message, bot port.Bot, _ []string) error {
	args := commandArgs(bot, message)
	if len(args) == 0 {
		return notifyAndReturnError(ctx, bot, fmt.Errorf("%w: alarm names to unwatch", ErrMissingArgument), message)
	}

	if len(args) == 1 && strings.EqualFold(args[0], "all") {
		pending := &pendingClear{
			watchlist: w,
			channel:   message.Channel,
			user:      message.User,
			expires:   w.now().Add(confirmWindow),
		}
		pending.register(bot)

		return bot.SendMessage(ctx,
			fmt.Sprintf("Reply %q to stop watching every alarm in this channel.", confirmClear), message.Channel)
	}

	w.mu.Lock()
	names, err := w.load(message.Channel)
	if err == nil {
		names = slices.DeleteFunc(names, func(name string) bool {
			return slices.Contains(args, name)
		})

		err = w.save(message.Channel, names)
	}
	w.mu.Unlock()

	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	return bot.SendMessage(ctx, fmt.Sprintf("watching %d alarm(s) in this channel", len(names)), message.Channel)
}

// pendingClear waits for the answer to "unwatch all". It stays registered until the
// requester speaks again in the same channel, whatever else is said in between.
type pendingClear struct {
	watchlist *Watchlist
	channel   string
	user      string
	expires   time.Time

	mu         sync.Mutex
	id         uuid.UUID
	registered bool
	answered   bool
}

func (p *pendingClear) register(bot port.Bot) {
	id := bot.AddHandler(p.match, p.respond)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.id = id
	p.registered = true
	if p.answered {
		bot.RemoveHandler(id)
	}
}

func (p *pendingClear) match(message *domain.Message) bool {
	return message.Channel == p.channel && message.User == p.user
}

func (p *pendingClear) respond(ctx context.Context, message *domain.Message, bot port.Bot) error {
	if !p.claim(bot) {
		return nil
	}

	if p.watchlist.now().After(p.expires) {
		log.Debug().Str("channel", p.channel).Msg("unwatch all confirmation expired")
		return nil
	}

	return p.watchlist.clear(ctx, message, bot)
}

// claim marks the request answered and drops the handler. Only the first answer counts.
func (p *pendingClear) claim(bot port.Bot) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.answered {
		return false
	}

	p.answered = true
	if p.registered {
		bot.RemoveHandler(p.id)
	}

	return true
}

func (w *Watchlist) clear(ctx context.Context, message *domain.Message, bot port.Bot) error {
	if !strings.EqualFold(strings.TrimSpace(message.Text), confirmClear) {
		return bot.SendMessage(ctx, "ok, keeping the watchlist", message.Channel)
	}

	w.mu.Lock()
	err := w.save(message.Channel, []string{})
	w.mu.Unlock()

	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	log.Info().Str("channel", message.Channel).Msg("watchlist cleared")

	return bot.SendMessage(ctx, "watchlist cleared", message.Channel)
}

func (w *Watchlist) Show(ctx context.Context, message *domain.Message, bot port.Bot, _ []string) error {
	names, err := w.Names(message.Channel)
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	if len(names) == 0 {
		return bot.SendMessage(ctx, "this channel is not watching any alarms", message.Channel)
	}

	alarms, err := w.alarms.QueryAlarmsByWatchlist(ctx, names)
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	return bot.SendMessage(ctx, domain.FormatAlarms(alarms), message.Channel)
}
