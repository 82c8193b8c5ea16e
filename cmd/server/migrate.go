package main

import (
	"github.com/spf13/cobra"

	"team-timelog/internal/config"
	"team-timelog/internal/database"
	"team-timelog/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.LoadForMigrate()
		if err != nil {
			return err
		}
		log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.DBDSN.Value(), log)
		if err != nil {
			return err
		}
		defer database.Close(db) //nolint:errcheck // process exits right after.

		return database.Migrate(cmd.Context(), db, log)
	},
}
