package main

import (
	"github.com/spf13/cobra"
	"github.com/techhub/server/internal/bootstrap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
		if err != nil {
			return err
		}

		pool, err := bootstrap.ConnectDatabase(cmd.Context(), cfg, lgr)
		if err != nil {
			return err
		}
		defer pool.Close()

		return bootstrap.RunMigrations(cmd.Context(), pool, lgr)
	},
}
