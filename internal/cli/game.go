package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLocationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "Show your per-level location view",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result ProgressResult

			if err := client.Get("/api/v1/locations", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSubmitCmd() *cobra.Command {
	var code string

	cmd := &cobra.Command{
		Use:   "submit <location-id>",
		Short: "Submit a code for a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locationID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid location id: %s", args[0])
			}

			req := map[string]string{"code": code}
			var result SubmitResult

			path := fmt.Sprintf("/api/v1/locations/%d/submit", locationID)
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&code, "code", "", "Location code (required)")
	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LeaderboardResult

			if err := client.Get("/api/v1/leaderboard", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
