package cmd

import (
	"context"
	"opsbot/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	registry := newRegistry(commandDeps{started: time.Now()})

	assert.Equal(t, []string{
		"help", "commands", "health", "status", "alarms", "count", "prefix",
		"watch", "unwatch", "watchlist", "stats", "debug",
	}, registry.ListCommands())

	tests := []struct {
		name   string
		roles  []string
		wanted bool
	}{
		{name: "watch", roles: []string{"operator"}, wanted: true},
		{name: "unwatch", roles: []string{"admin"}, wanted: true},
		{name: "watch", roles: []string{"viewer"}, wanted: false},
		{name: "debug", roles: []string{"operator"}, wanted: false},
		{name: "debug", roles: []string{"admin"}, wanted: true},
		{name: "health", roles: nil, wanted: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := registry.Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.wanted, domain.Satisfies(spec.Roles, tt.roles))
		})
	}
}

type fakeLister struct {
	called string
}

func (f *fakeLister) QueryAlarmsByStateReadably(_ context.Context, state domain.AlarmState) (string, error) {
	f.called = "state:" + string(state)
	return "", nil
}

func (f *fakeLister) QueryAlarmsByPrefixReadably(_ context.Context, prefix string) (string, error) {
	f.called = "prefix:" + prefix
	return "", nil
}

func (f *fakeLister) QueryAlarmsByWatchlistReadably(_ context.Context, names []string) (string, error) {
	f.called = "watch:" + names[0]
	return "", nil
}

func TestListAlarms(t *testing.T) {
	tests := []struct {
		name    string
		state   string
		prefix  string
		names   []string
		want    string
		wantErr bool
	}{
		{name: "default state", state: "alarm", want: "state:ALARM"},
		{name: "insufficient", state: "insufficient", want: "state:INSUFFICIENT_DATA"},
		{name: "prefix wins over state", state: "ok", prefix: "prod-", want: "prefix:prod-"},
		{name: "names win over prefix", prefix: "prod-", names: []string{"db"}, want: "watch:db"},
		{name: "bad state", state: "purple", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alarmState, alarmPrefix, alarmNames = tt.state, tt.prefix, tt.names

			lister := &fakeLister{}
			_, err := listAlarms(t.Context(), lister)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, lister.called)
		})
	}
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, "debug", logLevel("debug").String())
	assert.Equal(t, "info", logLevel("info").String())
	assert.Equal(t, "info", logLevel("").String())
}
