package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/distr-sh/recoverd/internal/mapping"
	"github.com/distr-sh/recoverd/internal/svc"
	"github.com/distr-sh/recoverd/internal/types"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage recovery tokens",
}

var tokenIssueSendMail bool

var tokenIssueCmd = &cobra.Command{
	Use:   "issue USERNAME",
	Short: "Issue a recovery token",
	Long: "Issue a recovery token for the account. The token supersedes all " +
		"previously issued recovery tokens of the account.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(registry *svc.Registry) error {
			service := registry.GetRecoveryService()
			if tokenIssueSendMail {
				if _, err := service.RequestRecovery(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "recovery mail sent")
				return nil
			}
			account, token, err := service.IssueRecoveryToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account: %v\ntoken:   %v\n", account.ID, token.Token)
			if token.ExpiresAt != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "expires: %v\n", token.ExpiresAt.Format(time.RFC3339))
			}
			return nil
		})
	},
}

type tokenInfo struct {
	ID         uuid.UUID                     `json:"id"`
	Kind       types.AuthenticationTokenKind `json:"kind"`
	CreatedAt  time.Time                     `json:"created_at"`
	ExpiresAt  *time.Time                    `json:"expires_at"`
	ConsumedAt *time.Time                    `json:"consumed_at"`
	Active     bool                          `json:"active"`
}

func toTokenInfo(token types.AuthenticationToken) tokenInfo {
	return tokenInfo{
		ID:         token.ID,
		Kind:       token.Kind,
		CreatedAt:  token.CreatedAt,
		ExpiresAt:  token.ExpiresAt,
		ConsumedAt: token.ConsumedAt,
		Active:     token.Active,
	}
}

var tokenListCmd = &cobra.Command{
	Use:   "list USERNAME",
	Short: "List the tokens of an account without their secrets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd, func(registry *svc.Registry) error {
			ctx := cmd.Context()
			store := registry.GetStore()
			account, err := store.FindAccountByUsername(ctx, args[0])
			if err != nil {
				return err
			}
			tokens, err := store.GetTokens(ctx, account.ID)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(mapping.List(tokens, toTokenInfo))
		})
	},
}

func init() {
	tokenIssueCmd.Flags().BoolVar(&tokenIssueSendMail, "mail", false, "send the recovery link by mail instead of printing the token")
	tokenCmd.AddCommand(tokenIssueCmd, tokenListCmd)
}
