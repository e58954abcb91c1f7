package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aatumaykin/coursebot/internal/storage"
)

// migrateCmd applies database migrations without starting the bot.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  `Create the SQLite database if needed and apply all pending migrations.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := storage.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ database is up to date: %s\n", cfg.Database.Path)
		return nil
	},
}
