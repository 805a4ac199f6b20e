package service

import (
	"context"
	"fmt"
	"opsbot/internal/core/port"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Tracker interface {
	TryUse(ctx context.Context, channel string) bool
}

// UsageTracker counts commands per channel and refuses more than dailyLimit of them until
// the next local midnight. A limit of zero disables the check.
type UsageTracker struct {
	channels   map[string]int
	dailyLimit int
	mutex      sync.Mutex
	sender     port.TextSender
}

func NewUsageTracker(ctx context.Context, sender port.TextSender, dailyLimit int) *UsageTracker {
	ut := &UsageTracker{
		channels:   make(map[string]int),
		sender:     sender,
		dailyLimit: dailyLimit,
	}

	go ut.ResetDailyLimit(ctx)

	return ut
}

func (t *UsageTracker) Usage(channel string) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	return t.channels[channel]
}

const overLimit = "This channel has used its %d commands for today. The limit resets in %s."

// TryUse counts one command for channel if the channel is still under its limit, and tells the
// channel when it is not. The check and the increment happen under one lock.
func (t *UsageTracker) TryUse(ctx context.Context, channel string) bool {
	t.mutex.Lock()
	allowed := t.dailyLimit <= 0 || t.channels[channel] < t.dailyLimit
	if allowed {
		t.channels[channel]++
	}
	t.mutex.Unlock()

	if !allowed {
		t.notifyLimit(ctx, channel)
	}

	return allowed
}

func (t *UsageTracker) notifyLimit(ctx context.Context, channel string) {
	err := t.sender.SendMessage(ctx,
		fmt.Sprintf(overLimit, t.dailyLimit, time.Until(getNextResetTime()).Truncate(time.Second)),
		channel)
	if err != nil {
		log.Warn().Err(err).Msg("failed to send daily limit exceeded warning")
	}
}

func (t *UsageTracker) ResetDailyLimit(ctx context.Context) {
	reset := getNextResetTime()

	for {
		log.Debug().Time("reset", reset).Msg("running reset timer")
		select {
		case <-time.After(time.Until(reset)):
			log.Debug().Msg("resetting daily limit")
			t.mutex.Lock()
			t.channels = make(map[string]int)
			t.mutex.Unlock()
			time.Sleep(time.Second)
			reset = getNextResetTime()
		case <-ctx.Done():
			log.Debug().Msg("stopping daily limit reset")
			return
		}
	}
}

func getNextResetTime() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
