package main

import (
	"context"
	"os"

	"github.com/distr-sh/recoverd/internal/buildconfig"
	"github.com/distr-sh/recoverd/internal/env"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "recoverd",
	Short:         "Account recovery by binding a new OpenPGP public key",
	Version:       buildconfig.Version(),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		env.Initialize()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, accountCmd, tokenCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
