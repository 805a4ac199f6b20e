package sender

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) PostMessageContext(ctx context.Context, channelID string,
	options ...slack.MsgOption) (string, string, error) {
	args := m.Called(ctx, channelID, options)
	return args.String(0), args.String(1), args.Error(2)
}

func TestSlackSender_SendMessage(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCalls int
		retErr    error
	}{
		{name: "single message", text: "hello", wantCalls: 1},
		{name: "long message is split", text: strings.Repeat("y", SlackMessageLimit*2+1), wantCalls: 3},
		{name: "post fails", text: "hello", wantCalls: 1, retErr: errors.New("channel_not_found")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mc := new(MockClient)
			mc.On("PostMessageContext", mock.Anything, "C1", mock.Anything).
				Return("C1", "1700000000.000100", tc.retErr)

			err := NewSlack(mc).SendMessage(t.Context(), tc.text, "C1")

			if tc.retErr != nil {
				require.ErrorIs(t, err, tc.retErr)
			} else {
				require.NoError(t, err)
			}
			mc.AssertNumberOfCalls(t, "PostMessageContext", tc.wantCalls)
		})
	}
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		limit int
		want  []string
	}{
		{name: "fits", text: "abc", limit: 5, want: []string{"abc"}},
		{name: "hard cut", text: "abcdefg", limit: 3, want: []string{"abc", "def", "g"}},
		{name: "cut after newline", text: "ab\ncdef", limit: 5, want: []string{"ab\n", "cdef"}},
		{name: "multibyte runes", text: "ääää", limit: 2, want: []string{"ää", "ää"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, chunk(tc.text, tc.limit))
		})
	}
}
