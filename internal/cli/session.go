package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session commands (passphrase gate and login)",
	}

	cmd.AddCommand(newSessionPassphraseCmd())
	cmd.AddCommand(newSessionLoginCmd())

	return cmd
}

func newSessionPassphraseCmd() *cobra.Command {
	var passphrase string

	cmd := &cobra.Command{
		Use:   "passphrase",
		Short: "Open a session with the shared passphrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"passphrase": passphrase}
			var result SessionResult

			if err := client.Post("/api/v1/session/passphrase", req, &result); err != nil {
				return err
			}

			// Save token so later commands use this session
			if err := cfg.SaveToken(result.SessionToken); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Shared passphrase (required)")
	_ = cmd.MarkFlagRequired("passphrase")

	return cmd
}

func newSessionLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in, registering the username on first use",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" {
				return fmt.Errorf("--user and --pass are required")
			}

			req := map[string]string{"username": user, "password": pass}
			var result LoginResult

			if err := client.Post("/api/v1/session/login", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}
