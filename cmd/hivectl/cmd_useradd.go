package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/hivetool/internal/app"
)

var (
	useraddEmail    string
	useraddPassword string
)

// useraddCmd registers a local account.
var useraddCmd = &cobra.Command{
	Use:   "useradd",
	Short: "Register a local user",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			user, err := a.Auth.Register(ctx, useraddEmail, useraddPassword)
			if err != nil {
				return fmt.Errorf("register %s: %w", useraddEmail, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s)\n", user.Email, user.ID.Hex())
			return nil
		})
	},
}

func init() {
	useraddCmd.Flags().StringVar(&useraddEmail, "email", "", "Account email")
	useraddCmd.Flags().StringVar(&useraddPassword, "password", "", "Account password")
	_ = useraddCmd.MarkFlagRequired("email")
	_ = useraddCmd.MarkFlagRequired("password")
}
