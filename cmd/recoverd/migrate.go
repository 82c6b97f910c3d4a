package main

import (
	"errors"

	"github.com/distr-sh/recoverd/internal/env"
	"github.com/distr-sh/recoverd/internal/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errNoDatabase = errors.New("DATABASE_URL is not set")

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if env.DatabaseUrl() == "" {
			return errNoDatabase
		}
		return migrations.Up(env.DatabaseUrl(), cliLogger())
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert all migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if env.DatabaseUrl() == "" {
			return errNoDatabase
		}
		return migrations.Down(env.DatabaseUrl(), cliLogger())
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
}

func cliLogger() *zap.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(env.LogLevel())
	return zap.Must(config.Build())
}
