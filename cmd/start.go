package cmd

import (
	"fmt"
	"os"

	"github.com/captriphead/telegram-dalle-bot/internal/bot"
	"github.com/captriphead/telegram-dalle-bot/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newStartCmd(verbose bool, version string, buildTime string) *cobra.Command {
	return &cobra.Command{
		Use:          "start",
		Short:        "telegram-dalle-bot start <config.toml>",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("telegram-dalle-bot start")
			fmt.Println("configPath: ", args[0])
			return run(verbose, args[0], version, buildTime)
		},
	}
}

func run(verbose bool, configFile string, version string, buildTime string) error {
	// A basic logger for the config loading phase, before the real one exists.
	tempLogger, _ := zap.NewProduction()
	defer tempLogger.Sync()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		tempLogger.Error("config file does not exist", zap.String("path", configFile))
		return fmt.Errorf("config file does not exist: %s", configFile)
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		tempLogger.Error("failed to load config", zap.Error(err))
		return err
	}

	if err := config.ValidateConfig(cfg); err != nil {
		tempLogger.Error("config validation failed", zap.Error(err))
		return err
	}

	return bot.StartBot(cfg, version, buildTime)
}
