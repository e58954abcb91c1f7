package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/coursebot/internal/app"
	"github.com/aatumaykin/coursebot/internal/logger"
	"github.com/aatumaykin/coursebot/internal/version"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bot (main command)",
	Long: `Start the bot with the specified configuration.
This opens the database, connects to Telegram, arms lesson reminders
and runs until SIGINT or SIGTERM, then shuts down gracefully.`,
	RunE: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) error {
	cfg, err := loadValidConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()
	logger.SetDefault(log)

	log.Info("🚀 starting coursebot",
		logger.Field{Key: "version", Value: version.Version},
		logger.Field{Key: "git_commit", Value: version.GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "token", Value: cfg.Telegram.MaskedToken()},
		logger.Field{Key: "database", Value: cfg.Database.Path},
		logger.Field{Key: "timezone", Value: cfg.Course.Timezone})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.New(cfg, log).Run(ctx); err != nil {
		log.Error("coursebot stopped with error", err)
		return err
	}

	log.Info("👋 coursebot stopped gracefully")
	return nil
}
