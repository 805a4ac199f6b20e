package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "opsbot",
	Short: "Chat bot for CloudWatch alarms and metrics",
	Long: `opsbot listens on Slack or Telegram for messages addressed to it and answers
questions about CloudWatch alarms and metrics. Each channel can keep a
watchlist of alarms, and role gated commands change it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		err := loadConfig()
		if err != nil {
			return err
		}

		zerolog.SetGlobalLevel(logLevel(viper.GetString("bot.log_level")))

		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default ./config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug or info")

	_ = viper.BindPFlag("bot.log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.SetDefault("bot.name", "opsbot")
	viper.SetDefault("bot.transport", "slack")
	viper.SetDefault("bot.log_level", "info")
	viper.SetDefault("persistence.path", "./data")
}

func loadConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("opsbot")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("could not read config file: %w", err)
	}

	log.Debug().Str("path", viper.ConfigFileUsed()).Msg("config loaded")

	return nil
}

func logLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	default:
		return zerolog.InfoLevel
	}
}
