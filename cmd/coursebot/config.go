package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Validate coursebot configuration.`,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate [config-file]",
	Short: "Validate configuration file",
	Long:  `Validate the configuration file and check for errors.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			configPath = args[0]
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if errs := cfg.Validate(); len(errs) > 0 {
			return validationError(errs)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ configuration is valid: %s (token %s, %d static lessons)\n",
			configPath, cfg.Telegram.MaskedToken(), len(cfg.Schedule.Lessons))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
