package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "timelog",
	Short: "Team time log web service",
	Long: `timelog serves the team time log: members record daily hours on a
calendar, admins review the whole team and the audit trail.

Configuration comes from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
