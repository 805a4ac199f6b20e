package monitor

import (
	"context"
	"fmt"
	"opsbot/internal/core/domain"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/rs/zerolog/log"
)

type CloudWatchAPI interface {
	DescribeAlarms(ctx context.Context, params *cloudwatch.DescribeAlarmsInput,
		optFns ...func(*cloudwatch.Options)) (*cloudwatch.DescribeAlarmsOutput, error)
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput,
		optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

type CloudWatch struct {
	api CloudWatchAPI
}

func NewCloudWatch(api CloudWatchAPI) *CloudWatch {
	return &CloudWatch{api: api}
}

// NewCloudWatchClient builds a client for region. Static keys are used when both are set,
// otherwise the default AWS credential chain applies.
func NewCloudWatchClient(ctx context.Context, region, accessKeyID, secretAccessKey string) (*cloudwatch.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if accessKeyID != "" && secretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return cloudwatch.NewFromConfig(cfg), nil
}

// DescribeAlarms fetches one page of metric alarms.
func (c *CloudWatch) DescribeAlarms(ctx context.Context, query domain.AlarmQuery,
	nextToken string) (domain.Page[domain.Alarm], error) {
	input := &cloudwatch.DescribeAlarmsInput{
		AlarmNames: query.Names,
	}
	if query.State != "" {
		input.StateValue = types.StateValue(query.State)
	}
	if query.ActionPrefix != "" {
		input.ActionPrefix = aws.String(query.ActionPrefix)
	}
	if query.NamePrefix != "" {
		input.AlarmNamePrefix = aws.String(query.NamePrefix)
	}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	out, err := c.api.DescribeAlarms(ctx, input)
	if err != nil {
		return domain.Page[domain.Alarm]{}, err
	}

	alarms := make([]domain.Alarm, 0, len(out.MetricAlarms))
	for _, a := range out.MetricAlarms {
		alarms = append(alarms, domain.Alarm{
			Name:        aws.ToString(a.AlarmName),
			Description: aws.ToString(a.AlarmDescription),
			MetricName:  aws.ToString(a.MetricName),
			Namespace:   aws.ToString(a.Namespace),
			State:       domain.AlarmState(a.StateValue),
		})
	}

	log.Debug().Int("alarms", len(alarms)).Bool("more", out.NextToken != nil).Msg("described alarms")

	return domain.Page[domain.Alarm]{Items: alarms, NextToken: aws.ToString(out.NextToken)}, nil
}

func (c *CloudWatch) GetMetricStatistics(ctx context.Context, query domain.MetricQuery) ([]domain.Datapoint, error) {
	statistics := make([]types.Statistic, 0, len(query.Statistics))
	for _, s := range query.Statistics {
		statistics = append(statistics, types.Statistic(s))
	}

	out, err := c.api.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(query.Namespace),
		MetricName: aws.String(query.MetricName),
		Period:     aws.Int32(int32(query.Period / time.Second)),
		Statistics: statistics,
		StartTime:  aws.Time(query.Start),
		EndTime:    aws.Time(query.End),
	})
	if err != nil {
		return nil, err
	}

	points := make([]domain.Datapoint, 0, len(out.Datapoints))
	for _, dp := range out.Datapoints {
		values := map[string]float64{}
		for name, v := range map[string]*float64{
			string(types.StatisticSampleCount): dp.SampleCount,
			string(types.StatisticAverage):     dp.Average,
			string(types.StatisticSum):         dp.Sum,
			string(types.StatisticMinimum):     dp.Minimum,
			string(types.StatisticMaximum):     dp.Maximum,
		} {
			if v != nil {
				values[name] = *v
			}
		}

		points = append(points, domain.Datapoint{
			Timestamp: aws.ToTime(dp.Timestamp),
			Values:    values,
			Unit:      string(dp.Unit),
		})
	}

	return points, nil
}
