package cmd

import (
	"context"
	"errors"
	"fmt"
	"opsbot/internal/adapters/file"
	"opsbot/internal/adapters/handler"
	"opsbot/internal/adapters/sender"
	"opsbot/internal/core/port"
	"opsbot/internal/core/service"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot on the configured transport",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log.Info().Msg("starting opsbot...")

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	timeout, err := handlerTimeout()
	if err != nil {
		return err
	}

	alarms, err := newAlarmsService(ctx)
	if err != nil {
		return err
	}

	store := file.NewPersister(afero.NewOsFs(), viper.GetString("persistence.path"))
	err = store.Start()
	if err != nil {
		return err
	}

	authorizer, err := service.NewConfigAuthorizer()
	if err != nil {
		return err
	}

	registry := newRegistry(commandDeps{
		alarms:  alarms,
		metrics: alarms,
		store:   store,
		started: time.Now(),
	})

	newDispatcher := func(s port.TextSender) *service.Dispatcher {
		params := service.DispatcherParams{
			Name:       viper.GetString("bot.name"),
			Greeting:   viper.GetString("bot.greeting"),
			Commands:   registry,
			Authorizer: authorizer,
			Sender:     s,
		}

		if limit := viper.GetInt("bot.daily_command_limit"); limit > 0 {
			params.Tracker = service.NewUsageTracker(ctx, s, limit)
		}

		d := service.NewDispatcher(params)
		registerHandlers(d, alarms)

		return d
	}

	transport := viper.GetString("bot.transport")
	log.Info().Str("transport", transport).Strs("commands", registry.ListCommands()).Msg("bot configured")

	switch transport {
	case "slack":
		return serveSlack(ctx, newDispatcher, timeout)
	case "telegram":
		return serveTelegram(ctx, newDispatcher, timeout)
	default:
		return fmt.Errorf("unknown transport %q, use slack or telegram", transport)
	}
}

func handlerTimeout() (time.Duration, error) {
	raw := viper.GetString("handler.timeout")
	if raw == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout for handler in config: %w", err)
	}

	return timeout, nil
}

func serveSlack(ctx context.Context, newDispatcher func(port.TextSender) *service.Dispatcher,
	timeout time.Duration) error {
	api := slack.New(
		viper.GetString("slack.bot_token"),
		slack.OptionAppLevelToken(viper.GetString("slack.app_token")),
	)
	client := socketmode.New(api)

	listener := handler.NewSlack(newDispatcher(sender.NewSlack(api)), timeout)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := client.RunContext(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		listener.Listen(ctx, client.Events, client)
		return nil
	})

	log.Info().Msg("bot listening")

	return g.Wait()
}

func serveTelegram(ctx context.Context, newDispatcher func(port.TextSender) *service.Dispatcher,
	timeout time.Duration) error {
	var listener *handler.Telegram

	b, err := bot.New(viper.GetString("telegram.bot_token"),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			listener.Handle(ctx, b, update)
		}))
	if err != nil {
		return fmt.Errorf("failed initializing telegram bot: %w", err)
	}

	listener = handler.NewTelegram(newDispatcher(sender.NewTelegram(b)), timeout)

	log.Info().Msg("bot listening")
	b.Start(ctx)

	return nil
}
