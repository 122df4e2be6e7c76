package main

import (
	"github.com/spf13/cobra"
	"github.com/techhub/server/internal/pkg/logger"
	"github.com/techhub/server/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. Pending migrations are applied and the configured
admin account is created before the listener opens. SIGINT and SIGTERM
trigger a graceful shutdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.NewServer(cmd.Context(), configPath)
		if err != nil {
			return err
		}

		if err := srv.Run(); err != nil {
			return err
		}

		logger.Info().Msg("Application finished gracefully.")
		return nil
	},
}
