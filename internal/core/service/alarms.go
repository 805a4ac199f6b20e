package service

import (
	"context"
	"errors"
	"fmt"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrInvalidPeriod = errors.New("metric period must be 1, 5, 10, 30 seconds or a multiple of 60 seconds")

// validPeriod follows CloudWatch: whole seconds, either a high resolution period or whole minutes.
func validPeriod(period time.Duration) bool {
	if period <= 0 || period%time.Second != 0 {
		return false
	}

	switch seconds := int64(period / time.Second); seconds {
	case 1, 5, 10, 30:
		return true
	default:
		return seconds%60 == 0
	}
}

// Alarms answers alarm and metric questions on top of the monitoring collaborator.
type Alarms struct {
	describer port.AlarmDescriber
	metrics   port.MetricReader
	now       func() time.Time
}

func NewAlarms(describer port.AlarmDescriber, metrics port.MetricReader) *Alarms {
	return &Alarms{describer: describer, metrics: metrics, now: time.Now}
}

// GetAllAlarms fetches every page matching query and applies filter to the merged result.
func (a *Alarms) GetAllAlarms(ctx context.Context, query domain.AlarmQuery,
	filter func(domain.Alarm) bool) (domain.Page[domain.Alarm], error) {
	pages := 0
	result, err := domain.CollectPages(ctx, func(ctx context.Context, token string) (domain.Page[domain.Alarm], error) {
		pages++
		return a.describer.DescribeAlarms(ctx, query, token)
	}, filter)
	if err != nil {
		return domain.Page[domain.Alarm]{}, err
	}

	log.Debug().Int("pages", pages).Int("alarms", len(result.Items)).Msg("collected alarms")

	return result, nil
}

func (a *Alarms) QueryAlarmsByState(ctx context.Context, state domain.AlarmState) ([]domain.Alarm, error) {
	page, err := a.GetAllAlarms(ctx, domain.AlarmQuery{State: state}, nil)
	if err != nil {
		return nil, fmt.Errorf("error querying alarms in state %s: %w", state, err)
	}

	return page.Items, nil
}

func (a *Alarms) QueryAlarmsByStateReadably(ctx context.Context, state domain.AlarmState) (string, error) {
	alarms, err := a.QueryAlarmsByState(ctx, state)
	if err != nil {
		return "", err
	}

	return domain.FormatAlarms(alarms), nil
}

func (a *Alarms) CountAlarmsByState(ctx context.Context, state domain.AlarmState) (int, error) {
	alarms, err := a.QueryAlarmsByState(ctx, state)
	if err != nil {
		return 0, err
	}

	return len(alarms), nil
}

// QueryAlarmsByWatchlist returns the alarms with the given names. An empty watchlist
// matches nothing and makes no call.
func (a *Alarms) QueryAlarmsByWatchlist(ctx context.Context, names []string) ([]domain.Alarm, error) {
	if len(names) == 0 {
		return []domain.Alarm{}, nil
	}

	page, err := a.GetAllAlarms(ctx, domain.AlarmQuery{Names: names}, nil)
	if err != nil {
		return nil, fmt.Errorf("error querying watched alarms: %w", err)
	}

	return page.Items, nil
}

func (a *Alarms) QueryAlarmsByWatchlistReadably(ctx context.Context, names []string) (string, error) {
	alarms, err := a.QueryAlarmsByWatchlist(ctx, names)
	if err != nil {
		return "", err
	}

	return domain.FormatAlarms(alarms), nil
}

func (a *Alarms) QueryAlarmsByPrefix(ctx context.Context, prefix string) ([]domain.Alarm, error) {
	page, err := a.GetAllAlarms(ctx, domain.AlarmQuery{NamePrefix: prefix}, nil)
	if err != nil {
		return nil, fmt.Errorf("error querying alarms with prefix %q: %w", prefix, err)
	}

	return page.Items, nil
}

func (a *Alarms) QueryAlarmsByPrefixReadably(ctx context.Context, prefix string) (string, error) {
	alarms, err := a.QueryAlarmsByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}

	return domain.FormatAlarms(alarms), nil
}

func (a *Alarms) HealthReportByState(ctx context.Context) (string, error) {
	page, err := a.GetAllAlarms(ctx, domain.AlarmQuery{}, nil)
	if err != nil {
		return "", fmt.Errorf("error building health report: %w", err)
	}

	return domain.FormatHealthReport(page.Items), nil
}

// GetMetricStatistics returns the datapoints of query between from and to.
func (a *Alarms) GetMetricStatistics(ctx context.Context, query domain.MetricQuery,
	from, to time.Time) ([]domain.Datapoint, error) {
	if !validPeriod(query.Period) {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPeriod, query.Period)
	}

	query.Start = from
	query.End = to

	points, err := a.metrics.GetMetricStatistics(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error fetching statistics for %s/%s: %w", query.Namespace, query.MetricName, err)
	}

	return points, nil
}

// GetMetricStatisticsSingle returns the newest datapoint within the last period. ok is false
// when the window holds no data.
func (a *Alarms) GetMetricStatisticsSingle(ctx context.Context,
	query domain.MetricQuery) (point domain.Datapoint, ok bool, err error) {
	now := a.now()

	points, err := a.GetMetricStatistics(ctx, query, now.Add(-query.Period), now)
	if err != nil {
		return domain.Datapoint{}, false, err
	}

	for i, p := range points {
		if i == 0 || p.Timestamp.After(point.Timestamp) {
			point = p
		}
	}

	return point, len(points) > 0, nil
}

// GetMetricStatisticsForDay returns the datapoints of the calendar day daysAgo days back,
// from midnight to midnight in the local time zone.
func (a *Alarms) GetMetricStatisticsForDay(ctx context.Context, query domain.MetricQuery,
	daysAgo int) ([]domain.Datapoint, error) {
	if daysAgo < 0 {
		return nil, fmt.Errorf("days ago must not be negative: %d", daysAgo)
	}

	now := a.now()
	start := time.Date(now.Year(), now.Month(), now.Day()-daysAgo, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day()-daysAgo+1, 0, 0, 0, 0, now.Location())

	return a.GetMetricStatistics(ctx, query, start, end)
}
