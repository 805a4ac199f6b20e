package command

import (
	"errors"
	"opsbot/internal/core/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func message(text string) *domain.Message {
	return &domain.Message{Text: text, Channel: "C1", User: "U1"}
}

func TestHelp_ListsCommands(t *testing.T) {
	mockBot := new(MockBot)
	mockBot.On("SendMessage", mock.Anything,
		"Address me with \"opsbot <command>\". Commands I know:\n• help\n• alarms\n", "C1").
		Return(nil)

	err := NewHelp(fixedCommands{"help", "alarms"}).Respond(t.Context(), message("opsbot help"), mockBot, nil)

	require.NoError(t, err)
	mockBot.AssertExpectations(t)
}

func TestReport_Health(t *testing.T) {
	mockBot := new(MockBot)
	mockAlarms := new(MockAlarms)
	mockAlarms.On("HealthReportByState", mock.Anything).Return("report", nil)
	mockBot.On("SendMessage", mock.Anything, "report", "C1").Return(nil)

	err := NewReport(mockAlarms).Health(t.Context(), message("opsbot health"), mockBot, nil)

	require.NoError(t, err)
	mockBot.AssertExpectations(t)
}

func TestReport_HealthError(t *testing.T) {
	mockBot := new(MockBot)
	mockAlarms := new(MockAlarms)
	mockAlarms.On("HealthReportByState", mock.Anything).Return("", errors.New("throttled"))
	mockBot.On("SendMessage", mock.Anything, "error: throttled", "C1").Return(nil)

	err := NewReport(mockAlarms).Health(t.Context(), message("opsbot health"), mockBot, nil)

	require.EqualError(t, err, "throttled")
	mockBot.AssertExpectations(t)
}

func TestReport_ByState(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		state domain.AlarmState
		list  string
		reply string
	}{
		{
			name:  "defaults to alarm",
			text:  "opsbot alarms",
			state: domain.StateAlarm,
			list:  "*ALARM*: a\n",
			reply: "*ALARM*: a\n",
		},
		{
			name:  "lowercase state",
			text:  "opsbot alarms ok",
			state: domain.StateOK,
			list:  "*OK*: b\n",
			reply: "*OK*: b\n",
		},
		{
			name:  "two word state",
			text:  "opsbot alarms insufficient data",
			state: domain.StateInsufficientData,
			list:  "",
			reply: "no alarms in state INSUFFICIENT_DATA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBot := new(MockBot)
			mockAlarms := new(MockAlarms)
			mockAlarms.On("QueryAlarmsByStateReadably", mock.Anything, tt.state).Return(tt.list, nil)
			mockBot.On("SendMessage", mock.Anything, tt.reply, "C1").Return(nil)

			err := NewReport(mockAlarms).ByState(t.Context(), message(tt.text), mockBot, nil)

			require.NoError(t, err)
			mockAlarms.AssertExpectations(t)
			mockBot.AssertExpectations(t)
		})
	}
}

func TestReport_ByStateUnknownState(t *testing.T) {
	mockBot := new(MockBot)
	mockAlarms := new(MockAlarms)
	mockBot.On("SendMessage", mock.Anything, mock.MatchedBy(func(text string) bool {
		return assert.Contains(t, text, "unknown alarm state \"broken\"")
	}), "C1").Return(nil)

	err := NewReport(mockAlarms).ByState(t.Context(), message("opsbot alarms broken"), mockBot, nil)

	require.Error(t, err)
	mockAlarms.AssertNotCalled(t, "QueryAlarmsByStateReadably", mock.Anything, mock.Anything)
}

func TestReport_Count(t *testing.T) {
	tests := []struct {
		name  string
		count int
		reply string
	}{
		{name: "single", count: 1, reply: "1 alarm in state OK"},
		{name: "plural", count: 3, reply: "3 alarms in state OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBot := new(MockBot)
			mockAlarms := new(MockAlarms)
			mockAlarms.On("CountAlarmsByState", mock.Anything, domain.StateOK).Return(tt.count, nil)
			mockBot.On("SendMessage", mock.Anything, tt.reply, "C1").Return(nil)

			err := NewReport(mockAlarms).Count(t.Context(), message("opsbot count OK"), mockBot, nil)

			require.NoError(t, err)
			mockBot.AssertExpectations(t)
		})
	}
}

func TestReport_Prefix(t *testing.T) {
	mockBot := new(MockBot)
	mockAlarms := new(MockAlarms)
	mockAlarms.On("QueryAlarmsByPrefixReadably", mock.Anything, "prod-").Return("*OK*: prod-db\n", nil)
	mockBot.On("SendMessage", mock.Anything, "*OK*: prod-db\n", "C1").Return(nil)

	err := NewReport(mockAlarms).Prefix(t.Context(), message("opsbot prefix prod-"), mockBot, nil)

	require.NoError(t, err)
	mockBot.AssertExpectations(t)
}

func TestReport_PrefixMissing(t *testing.T) {
	mockBot := new(MockBot)
	mockBot.On("SendMessage", mock.Anything, mock.Anything, "C1").Return(nil)

	err := NewReport(new(MockAlarms)).Prefix(t.Context(), message("opsbot prefix"), mockBot, nil)

	require.ErrorIs(t, err, ErrMissingArgument)
}

func TestNotifyAndReturnError_SendFails(t *testing.T) {
	mockBot := new(MockBot)
	mockBot.On("SendMessage", mock.Anything, "error: boom", "C1").Return(errors.New("offline"))

	err := notifyAndReturnError(t.Context(), mockBot, errors.New("boom"), message("opsbot x"))

	require.EqualError(t, err, "boom: offline")
}

func TestReport_HealthLeavesStatusOfToHandler(t *testing.T) {
	mockBot := new(MockBot)
	mockAlarms := new(MockAlarms)

	err := NewReport(mockAlarms).Health(t.Context(), message("opsbot status of db-cpu"), mockBot, nil)

	require.NoError(t, err)
	mockAlarms.AssertNotCalled(t, "HealthReportByState", mock.Anything)
	mockBot.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything, mock.Anything)
}
