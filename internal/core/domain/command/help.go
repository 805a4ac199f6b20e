package command

import (
	"context"
	"fmt"
	"opsbot/internal/core/domain"
	"opsbot/internal/core/port"
	"strings"
)

type Help struct {
	commands port.CommandLister
}

func NewHelp(commands port.CommandLister) *Help {
	return &Help{commands: commands}
}

func (h *Help) Respond(ctx context.Context, message *domain.Message, bot port.Bot, _ []string) error {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Address me with \"%s <command>\". Commands I know:\n", bot.Name())

	for _, name := range h.commands.ListCommands() {
		fmt.Fprintf(sb, "• %s\n", name)
	}

	return bot.SendMessage(ctx, sb.String(), message.Channel)
}
