package cmd

import (
	"opsbot/internal/core/domain"
	"opsbot/internal/core/domain/command"
	"opsbot/internal/core/port"
	"time"
)

const (
	roleOperator = "operator"
	roleAdmin    = "admin"
)

type commandDeps struct {
	alarms  port.AlarmReporter
	metrics port.MetricReporter
	store   port.Persister
	started time.Time
}

// newRegistry declares every chat command. help lists the registry it belongs to.
func newRegistry(deps commandDeps) *command.Registry {
	registry := command.NewRegistry()

	report := command.NewReport(deps.alarms)
	watchlist := command.NewWatchlist(deps.alarms, deps.store)
	operators := []domain.RoleRequirement{domain.Single(roleOperator), domain.Single(roleAdmin)}

	registry.Register(
		command.Spec{Names: []string{"help", "commands"}, Logic: command.NewHelp(registry).Respond},
		command.Spec{Names: []string{"health", "status"}, Logic: report.Health},
		command.Spec{Names: []string{"alarms"}, Logic: report.ByState},
		command.Spec{Names: []string{"count"}, Logic: report.Count},
		command.Spec{Names: []string{"prefix"}, Logic: report.Prefix},
		command.Spec{Names: []string{"watch"}, Logic: watchlist.Watch, Roles: operators},
		command.Spec{Names: []string{"unwatch"}, Logic: watchlist.Unwatch, Roles: operators},
		command.Spec{Names: []string{"watchlist"}, Logic: watchlist.Show},
		command.Spec{Names: []string{"stats"}, Logic: command.NewStats(deps.metrics).Respond},
		command.Spec{
			Names: []string{"debug"},
			Logic: command.NewDebug(deps.started).Respond,
			Roles: []domain.RoleRequirement{domain.Single(roleAdmin)},
		},
	)

	return registry
}

// registerHandlers adds the free-form handlers that run on every message.
func registerHandlers(bot port.Bot, alarms port.AlarmReporter) {
	status := command.NewStatusOf(alarms)
	bot.AddHandler(status.Match, status.Respond)
}
