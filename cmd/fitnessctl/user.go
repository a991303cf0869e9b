package main

import (
	"fmt"

	"github.com/2beens/fitnesstracker/internal/docstore"
	"github.com/2beens/fitnesstracker/internal/users"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newUserCmd(a *app) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	userCmd.AddCommand(
		newSetActiveCmd(a, "activate", true),
		newSetActiveCmd(a, "deactivate", false),
		&cobra.Command{
			Use:   "show <username>",
			Short: "Show a user account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withStore(cmd.Context(), func(store docstore.Store) error {
					user, err := users.NewRepo(store).GetByUsername(cmd.Context(), args[0])
					if err != nil {
						return fmt.Errorf("get user %s: %w", args[0], err)
					}

					out := cmd.OutOrStdout()
					faint := color.New(color.Faint)
					fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint(user.Username), faint.Sprint(user.ID.String()))
					if user.Email != "" {
						fmt.Fprintf(out, "  email:   %s\n", user.Email)
					}
					if user.IsActive() {
						fmt.Fprintf(out, "  active:  %s\n", color.GreenString("yes"))
					} else {
						fmt.Fprintf(out, "  active:  %s\n", color.RedString("no"))
					}
					fmt.Fprintf(out, "  created: %s\n", faint.Sprint(user.CreatedAt.Format("2006-01-02 15:04:05")))
					return nil
				})
			},
		},
	)
	return userCmd
}

func newSetActiveCmd(a *app, use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: fmt.Sprintf("Mark a user account as %sd", use),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]
			return a.withStore(cmd.Context(), func(store docstore.Store) error {
				if err := users.NewRepo(store).SetActive(cmd.Context(), username, active); err != nil {
					return fmt.Errorf("%s %s: %w", use, username, err)
				}
				color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ %s %sd\n", username, use)
				return nil
			})
		},
	}
}
