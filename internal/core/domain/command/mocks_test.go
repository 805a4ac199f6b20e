package command

import (
	"context"
	"encoding/json"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/mock"
)

type MockBot struct {
	mock.Mock
}

func (m *MockBot) Name() string {
	return "opsbot"
}

func (m *MockBot) SendMessage(ctx context.Context, text, channel string) error {
	args := m.Called(ctx, text, channel)
	return args.Error(0)
}

func (m *MockBot) AddHandler(match domain.Predicate, logic port.HandlerFunc) uuid.UUID {
	args := m.Called(match, logic)
	return args.Get(0).(uuid.UUID)
}

func (m *MockBot) AddOneOffHandler(match domain.Predicate, logic port.HandlerFunc) uuid.UUID {
	args := m.Called(match, logic)
	return args.Get(0).(uuid.UUID)
}

func (m *MockBot) RemoveHandler(id uuid.UUID) bool {
	args := m.Called(id)
	return args.Bool(0)
}

type MockAlarms struct {
	mock.Mock
}

func (m *MockAlarms) QueryAlarmsByStateReadably(ctx context.Context, state domain.AlarmState) (string, error) {
	args := m.Called(ctx, state)
	return args.String(0), args.Error(1)
}

func (m *MockAlarms) CountAlarmsByState(ctx context.Context, state domain.AlarmState) (int, error) {
	args := m.Called(ctx, state)
	return args.Int(0), args.Error(1)
}

func (m *MockAlarms) QueryAlarmsByPrefixReadably(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockAlarms) QueryAlarmsByWatchlist(ctx context.Context, names []string) ([]domain.Alarm, error) {
	args := m.Called(ctx, names)
	alarms, _ := args.Get(0).([]domain.Alarm)
	return alarms, args.Error(1)
}

func (m *MockAlarms) HealthReportByState(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) GetMetricStatisticsSingle(ctx context.Context,
	query domain.MetricQuery) (domain.Datapoint, bool, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domain.Datapoint), args.Bool(1), args.Error(2)
}

func (m *MockMetrics) GetMetricStatisticsForDay(ctx context.Context, query domain.MetricQuery,
	daysAgo int) ([]domain.Datapoint, error) {
	args := m.Called(ctx, query, daysAgo)
	points, _ := args.Get(0).([]domain.Datapoint)
	return points, args.Error(1)
}

// memoryStore keeps JSON encoded values in a map.
type memoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
	err    error
}

func (s *memoryStore) Start() error {
	return nil
}

func (s *memoryStore) Save(key string, v any) error {
	if s.err != nil {
		return s.err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil {
		s.values = map[string][]byte{}
	}
	s.values[key] = data

	return nil
}

func (s *memoryStore) Recover(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.values[key]
	if !ok {
		return nil
	}

	return json.Unmarshal(data, v)
}

type fixedCommands []string

func (c fixedCommands) ListCommands() []string {
	return c
}
