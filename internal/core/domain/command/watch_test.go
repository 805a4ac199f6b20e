package command

import (
	"context"
	"errors"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWatchlist_WatchAndShow(t *testing.T) {
	store := &memoryStore{}
	mockAlarms := new(MockAlarms)
	mockBot := new(MockBot)
	w := NewWatchlist(mockAlarms, store)

	mockBot.On("SendMessage", mock.Anything, "watching 2 alarm(s) in this channel", "C1").Return(nil).Twice()

	require.NoError(t, w.Watch(t.Context(), message("opsbot watch a b"), mockBot, nil))
	require.NoError(t, w.Watch(t.Context(), message("opsbot watch b"), mockBot, nil))

	names, err := w.Names("C1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	other, err := w.Names("C2")
	require.NoError(t, err)
	assert.Empty(t, other)

	mockAlarms.On("QueryAlarmsByWatchlist", mock.Anything, []string{"a", "b"}).
		Return([]domain.Alarm{{Name: "a", State: domain.StateOK}, {Name: "b", State: domain.StateAlarm}}, nil)
	mockBot.On("SendMessage", mock.Anything, "*OK*: a\n*ALARM*: b\n", "C1").Return(nil)

	require.NoError(t, w.Show(t.Context(), message("opsbot watchlist"), mockBot, nil))
	mockBot.AssertExpectations(t)
}

func TestWatchlist_ShowEmpty(t *testing.T) {
	mockAlarms := new(MockAlarms)
	mockBot := new(MockBot)
	mockBot.On("SendMessage", mock.Anything, "this channel is not watching any alarms", "C1").Return(nil)

	err := NewWatchlist(mockAlarms, &memoryStore{}).Show(t.Context(), message("opsbot watchlist"), mockBot, nil)

	require.NoError(t, err)
	mockAlarms.AssertNotCalled(t, "QueryAlarmsByWatchlist", mock.Anything, mock.Anything)
}

func TestWatchlist_Unwatch(t *testing.T) {
	store := &memoryStore{}
	require.NoError(t, store.Save(watchlistKey("C1"), []string{"a", "b", "c"}))

	mockBot := new(MockBot)
	mockBot.On("SendMessage", mock.Anything, "watching 1 alarm(s) in this channel", "C1").Return(nil)

	w := NewWatchlist(new(MockAlarms), store)
	require.NoError(t, w.Unwatch(t.Context(), message("opsbot unwatch a c"), mockBot, nil))

	names, err := w.Names("C1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, names)
}

func TestWatchlist_UnwatchAllNeedsConfirmation(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		answer  string
		cleared bool
	}{
		{name: "confirmed", reply: "YES", answer: "watchlist cleared", cleared: true},
		{name: "declined", reply: "no thanks", answer: "ok, keeping the watchlist", cleared: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memoryStore{}
			require.NoError(t, store.Save(watchlistKey("C1"), []string{"a"}))
			w := NewWatchlist(new(MockAlarms), store)

			var match domain.Predicate
			var logic port.HandlerFunc
			id := uuid.Must(uuid.NewV4())

			mockBot := new(MockBot)
			mockBot.On("AddHandler", mock.Anything, mock.Anything).
				Run(func(args mock.Arguments) {
					match = args.Get(0).(domain.Predicate)
					logic = args.Get(1).(port.HandlerFunc)
				}).
				Return(id).Once()
			mockBot.On("RemoveHandler", id).Return(true).Once()
			mockBot.On("SendMessage", mock.Anything, "Reply \"yes\" to stop watching every alarm in this channel.", "C1").
				Return(nil)
			mockBot.On("SendMessage", mock.Anything, tt.answer, "C1").Return(nil).Once()

			require.NoError(t, w.Unwatch(t.Context(), message("opsbot unwatch all"), mockBot, nil))
			require.NotNil(t, match)

			assert.False(t, match(&domain.Message{Text: "yes", Channel: "C1", User: "U2"}))
			assert.False(t, match(&domain.Message{Text: "yes", Channel: "C2", User: "U1"}))

			reply := message(tt.reply)
			require.True(t, match(reply))
			require.NoError(t, logic(context.Background(), reply, mockBot))

			// a second answer arriving before removal took effect is ignored
			require.NoError(t, logic(context.Background(), message("yes"), mockBot))

			names, err := w.Names("C1")
			require.NoError(t, err)
			assert.Equal(t, tt.cleared, len(names) == 0)
			mockBot.AssertExpectations(t)
		})
	}
}

func TestWatchlist_UnwatchAllConfirmationExpires(t *testing.T) {
	store := &memoryStore{}
	require.NoError(t, store.Save(watchlistKey("C1"), []string{"a"}))

	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	w := NewWatchlist(new(MockAlarms), store)
	w.now = func() time.Time { return now }

	var logic port.HandlerFunc
	id := uuid.Must(uuid.NewV4())

	mockBot := new(MockBot)
	mockBot.On("AddHandler", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { logic = args.Get(1).(port.HandlerFunc) }).
		Return(id)
	mockBot.On("RemoveHandler", id).Return(true).Once()
	mockBot.On("SendMessage", mock.Anything, mock.Anything, "C1").Return(nil).Once()

	require.NoError(t, w.Unwatch(t.Context(), message("opsbot unwatch all"), mockBot, nil))

	now = now.Add(confirmWindow + time.Second)
	require.NoError(t, logic(t.Context(), message("yes"), mockBot))

	names, err := w.Names("C1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, names)
	mockBot.AssertExpectations(t)
}

func TestWatchlist_SaveFails(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}
	mockBot := new(MockBot)
	mockBot.On("SendMessage", mock.Anything, mock.Anything, "C1").Return(nil)

	err := NewWatchlist(new(MockAlarms), store).Watch(t.Context(), message("opsbot watch a"), mockBot, nil)

	require.ErrorContains(t, err, "disk full")
}

func TestWatchlist_WatchMissingArgument(t *testing.T) {
	mockBot := new(MockBot)
	mockBot.On("SendMessage", mock.Anything, mock.Anything, "C1").Return(nil)

	err := NewWatchlist(new(MockAlarms), &memoryStore{}).Watch(t.Context(), message("opsbot watch"), mockBot, nil)

	require.ErrorIs(t, err, ErrMissingArgument)
}
