package port

import (
	"context"
	"opsbot/internal/core/domain"
)

type AlarmDescriber interface {
	// DescribeAlarms fetches a single page of alarms. An empty nextToken requests the first page.
	DescribeAlarms(ctx context.Context, query domain.AlarmQuery, nextToken string) (domain.Page[domain.Alarm], error)
}

type MetricReader interface {
	GetMetricStatistics(ctx context.Context, query domain.MetricQuery) ([]domain.Datapoint, error)
}

// AlarmReporter renders alarm queries for chat replies.
type AlarmReporter interface {
	QueryAlarmsByStateReadably(ctx context.Context, state domain.AlarmState) (string, error)
	CountAlarmsByState(ctx context.Context, state domain.AlarmState) (int, error)
	QueryAlarmsByPrefixReadably(ctx context.Context, prefix string) (string, error)
	QueryAlarmsByWatchlist(ctx context.Context, names []string) ([]domain.Alarm, error)
	HealthReportByState(ctx context.Context) (string, error)
}

type MetricReporter interface {
	GetMetricStatisticsSingle(ctx context.Context, query domain.MetricQuery) (domain.Datapoint, bool, error)
	GetMetricStatisticsForDay(ctx context.Context, query domain.MetricQuery, daysAgo int) ([]domain.Datapoint, error)
}
