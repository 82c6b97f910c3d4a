package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/distr-sh/recoverd/api"
	"github.com/distr-sh/recoverd/internal/mapping"
	"github.com/distr-sh/recoverd/internal/svc"
	"github.com/distr-sh/recoverd/internal/types"
	"github.com/distr-sh/recoverd/internal/validation"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage accounts",
}

var accountCreateInactive bool

var accountCreateCmd = &cobra.Command{
	Use:   "create USERNAME",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validation.ValidateUsername(args[0]); err != nil {
			return err
		}
		return withRegistry(cmd, func(registry *svc.Registry) error {
			account := types.Account{Username: args[0], Active: !accountCreateInactive}
			if err := registry.GetStore().CreateAccount(cmd.Context(), &account); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), account.ID)
			return nil
		})
	},
}

type accountInfo struct {
	ID         uuid.UUID          `json:"id"`
	Username   string             `json:"username"`
	Active     bool               `json:"active"`
	KeyBinding *api.KeyDescriptor `json:"key_binding"`
}

var accountShowCmd = &cobra.Command{
	Use:   "show USERNAME",
	Short: "Show an account and its bound key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(registry *svc.Registry) error {
			ctx := cmd.Context()
			store := registry.GetStore()
			account, err := store.FindAccountByUsername(ctx, args[0])
			if err != nil {
				return err
			}
			binding, err := store.GetKeyBinding(ctx, account.ID)
			if err != nil && !isNotFound(err) {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(accountInfo{
				ID:         account.ID,
				Username:   account.Username,
				Active:     account.Active,
				KeyBinding: mapping.PtrOrNil(binding, mapping.KeyBindingToAPI),
			})
		})
	},
}

func init() {
	accountCreateCmd.Flags().BoolVar(&accountCreateInactive, "inactive", false, "create the account as not active")
	accountCmd.AddCommand(accountCreateCmd, accountShowCmd)
}
