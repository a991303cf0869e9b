package main

import (
	"fmt"
	"time"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/users"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Work with access tokens",
	}

	var ttl time.Duration
	issueCmd := &cobra.Command{
		Use:   "issue <username>",
		Short: "Issue an access token for an active user",
		Long: `Issue an access token for an active user, signed with the configured
JWT secret. Without --ttl the configured token lifetime is used.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			return a.withStore(cmd.Context(), func(store docstore.Store) error {
				user, err := users.NewRepo(store).GetByUsername(cmd.Context(), username)
				if err != nil {
					return fmt.Errorf("get user %s: %w", username, err)
				}
				if !user.IsActive() {
					return fmt.Errorf("user %s: %w", username, auth.ErrInactiveUser)
				}

				tokens := auth.NewTokenService([]byte(a.cfg.JWTSecretKey), a.cfg.TokenTTL.Duration)
				token, expiresAt, err := tokens.Issue(user.Username, ttl)
				if err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), token)
				color.New(color.Faint).Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.UTC().Format(time.RFC3339))
				return nil
			})
		},
	}
	issueCmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime, e.g. 1h (default: configured token_ttl)")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}
