package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/fluency-harness/internal/api/request"
	"github.com/mcoot/fluency-harness/internal/model"
)

func newLoginCmd() *cobra.Command {
	var user, pass string
	var remember bool

	cmd := &cobra.Command{
		Use:       "login <student|instructor>",
		Short:     "Log in and save the session token",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.RoleStudent), string(model.RoleInstructor)},
		RunE: func(cmd *cobra.Command, args []string) error {
			role, ok := model.ParseRole(args[0])
			if !ok {
				return fmt.Errorf("role must be %q or %q", model.RoleStudent, model.RoleInstructor)
			}

			token, err := client.Login(string(role), request.LoginRequest{
				LoginID:  user,
				Password: pass,
				Remember: remember,
			})
			if err != nil {
				return err
			}

			// Save token
			if err := cfg.SaveToken(token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(LoginResult{Role: string(role), LoginID: user, Remember: remember})
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Login ID (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	cmd.Flags().BoolVar(&remember, "remember", false, "Keep the session for the long session length")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Logout(); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}

			NewOutput(cmd.OutOrStdout(), cfg.Output).PrintMessage("Logged out")
			return nil
		},
	}
}
