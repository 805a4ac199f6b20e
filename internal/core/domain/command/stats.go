package command

import (
	"context"
	"fmt"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	defaultStatistic = "Average"
	latestPeriod     = 5 * time.Minute
	dailyPeriod      = time.Hour
)

var statistics = []string{"SampleCount", "Average", "Sum", "Minimum", "Maximum"}

// Stats reports metric statistics: the latest datapoint, or hourly points for a past day.
type Stats struct {
	metrics port.MetricReporter
}

func NewStats(metrics port.MetricReporter) *Stats {
	return &Stats{metrics: metrics}
}

func (s *Stats) Respond(ctx context.Context, message *domain.Message, bot port.Bot, _ []string) error {
	query, daysAgo, err := parseStatsArgs(commandArgs(bot, message))
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	if daysAgo < 0 {
		query.Period = latestPeriod

		point, ok, err := s.metrics.GetMetricStatisticsSingle(ctx, query)
		if err != nil {
			return notifyAndReturnError(ctx, bot, err, message)
		}

		if !ok {
			return bot.SendMessage(ctx,
				fmt.Sprintf("no datapoints for %s %s in the last %s", query.Namespace, query.MetricName, latestPeriod),
				message.Channel)
		}

		return bot.SendMessage(ctx, domain.FormatDatapoints([]domain.Datapoint{point}), message.Channel)
	}

	query.Period = dailyPeriod

	points, err := s.metrics.GetMetricStatisticsForDay(ctx, query, daysAgo)
	if err != nil {
		return notifyAndReturnError(ctx, bot, err, message)
	}

	return bot.SendMessage(ctx, domain.FormatDatapoints(points), message.Channel)
}

// parseStatsArgs reads "<namespace> <metric> [statistic] [days-ago]". daysAgo is -1 when absent.
func parseStatsArgs(args []string) (domain.MetricQuery, int, error) {
	if len(args) < 2 {
		return domain.MetricQuery{}, 0, fmt.Errorf("%w: usage is stats <namespace> <metric> [statistic] [days-ago]",
			ErrMissingArgument)
	}

	query := domain.MetricQuery{
		Namespace:  args[0],
		MetricName: args[1],
		Statistics: []string{defaultStatistic},
	}
	daysAgo := -1

	for _, arg := range args[2:] {
		if days, err := strconv.Atoi(arg); err == nil {
			if days < 0 {
				return domain.MetricQuery{}, 0, fmt.Errorf("days ago must not be negative, got %d", days)
			}
			daysAgo = days
			continue
		}

		idx := slices.IndexFunc(statistics, func(stat string) bool {
			return strings.EqualFold(stat, arg)
		})
		if idx < 0 {
			return domain.MetricQuery{}, 0, fmt.Errorf("unknown statistic %q, use one of %s",
				arg, strings.Join(statistics, ", "))
		}
		query.Statistics = []string{statistics[idx]}
	}

	return query, daysAgo, nil
}
