package cmd

import (
	"context"
	"fmt"
	"opsbot/internal/adapters/monitor"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	alarmState  string
	alarmPrefix string
	alarmNames  []string
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Print the number of alarms in each state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		alarms, err := newAlarmsService(cmd.Context())
		if err != nil {
			return err
		}

		report, err := alarms.HealthReportByState(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	},
}

var alarmsCmd = &cobra.Command{
	Use:   "alarms",
	Short: "List alarms by state, name prefix or name",
	Example: `  opsbot alarms --state ok
  opsbot alarms --prefix prod-
  opsbot alarms --watch prod-db-cpu,prod-api-latency`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		alarms, err := newAlarmsService(cmd.Context())
		if err != nil {
			return err
		}

		text, err := listAlarms(cmd.Context(), alarms)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	alarmsCmd.Flags().StringVar(&alarmState, "state", "alarm", "alarm state: ok, alarm or insufficient")
	alarmsCmd.Flags().StringVar(&alarmPrefix, "prefix", "", "only alarms whose name starts with this")
	alarmsCmd.Flags().StringSliceVar(&alarmNames, "watch", nil, "only these alarm names")

	rootCmd.AddCommand(healthCmd, alarmsCmd)
}

type alarmLister interface {
	QueryAlarmsByStateReadably(ctx context.Context, state domain.AlarmState) (string, error)
	QueryAlarmsByPrefixReadably(ctx context.Context, prefix string) (string, error)
	QueryAlarmsByWatchlistReadably(ctx context.Context, names []string) (string, error)
}

func listAlarms(ctx context.Context, alarms alarmLister) (string, error) {
	switch {
	case len(alarmNames) > 0:
		return alarms.QueryAlarmsByWatchlistReadably(ctx, alarmNames)
	case alarmPrefix != "":
		return alarms.QueryAlarmsByPrefixReadably(ctx, alarmPrefix)
	}

	state, ok := domain.ParseAlarmState(alarmState)
	if !ok {
		return "", fmt.Errorf("unknown alarm state %q", alarmState)
	}

	return alarms.QueryAlarmsByStateReadably(ctx, state)
}

func newAlarmsService(ctx context.Context) (*service.Alarms, error) {
	client, err := monitor.NewCloudWatchClient(ctx,
		viper.GetString("aws.region"),
		viper.GetString("aws.access_key_id"),
		viper.GetString("aws.secret_access_key"),
	)
	if err != nil {
		return nil, err
	}

	cw := monitor.NewCloudWatch(client)

	return service.NewAlarms(cw, cw), nil
}
