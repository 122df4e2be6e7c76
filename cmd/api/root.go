package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/techhub/server/internal/pkg/logger"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "techhub-api",
		Short: "TechHub API server",
		Long: `TechHub API server for tech community events: accounts, event
publishing, registration with capacity limits and waitlists.

Configuration is read from the YAML file given by --config, then from a .env
file in the working directory, then from environment variables.`,
		SilenceUsage: true,
		// Serve when no subcommand is given.
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join("configs", "config.yaml"), "config file path")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
