package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const healthReportTemplate = "*Number Of Alarms, By State:* \n" +
	"OK: *%d*\n" +
	"Alarm: *%d*\n" +
	"Insufficient Data: *%d*"

// FormatAlarms renders one "*STATE*: name" line per alarm.
func FormatAlarms(alarms []Alarm) string {
	sb := &strings.Builder{}
	for _, alarm := range alarms {
		fmt.Fprintf(sb, "*%s*: %s\n", alarm.State, alarm.Name)
	}

	return sb.String()
}

// CountByState tallies alarms per state. Unknown states are counted under their own key.
func CountByState(alarms []Alarm) map[AlarmState]int {
	counts := map[AlarmState]int{
		StateOK:               0,
		StateAlarm:            0,
		StateInsufficientData: 0,
	}

	for _, alarm := range alarms {
		counts[alarm.State]++
	}

	return counts
}

func FormatHealthReport(alarms []Alarm) string {
	counts := CountByState(alarms)
	return fmt.Sprintf(healthReportTemplate,
		counts[StateOK], counts[StateAlarm], counts[StateInsufficientData])
}

func FormatDatapoints(points []Datapoint) string {
	if len(points) == 0 {
		return "no datapoints"
	}

	sorted := make([]Datapoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	sb := &strings.Builder{}
	for i, point := range sorted {
		if i > 0 {
			sb.WriteString("\n")
		}

		sb.WriteString(point.Timestamp.UTC().Format(time.RFC3339))

		stats := make([]string, 0, len(point.Values))
		for stat := range point.Values {
			stats = append(stats, stat)
		}
		sort.Strings(stats)

		for _, stat := range stats {
			fmt.Fprintf(sb, " %s=%g", stat, point.Values[stat])
		}

		if point.Unit != "" {
			sb.WriteString(" " + point.Unit)
		}
	}

	return sb.String()
}
