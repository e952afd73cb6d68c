package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"meditation-server/internal/poller"

	"github.com/spf13/cobra"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var apiURL string
	var token string

	cmd := &cobra.Command{
		Use:   "watch <meditation-id>",
		Short: "Poll the API until the meditation is completed or failed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("MEDCTL_TOKEN")
			}
			if token == "" {
				return errors.New("an access token is required (--token or MEDCTL_TOKEN)")
			}

			out := cmd.OutOrStdout()
			started := time.Now()
			p := poller.New(poller.Options{
				BaseURL: apiURL,
				Token:   token,
				OnPoll: func(attempt int, snap *poller.StatusSnapshot) {
					fmt.Fprintf(out, "[%2d] %-12s %s\n", attempt, snap.Status, time.Since(started).Round(time.Second))
				},
			}, ctx.logger())

			snap, err := p.Wait(cmd.Context(), args[0])
			switch {
			case errors.Is(err, poller.ErrTimedOut):
				fmt.Fprintln(out, "Still processing: taking longer than expected. Check again later.")
				return nil
			case errors.Is(err, poller.ErrRateLimited):
				fmt.Fprintln(out, "Rate limited by the API. Refresh manually in a minute.")
				return nil
			case err != nil:
				return err
			}

			fmt.Fprintln(out, renderSnapshot(snap))
			if snap.Status == "failed" {
				return errors.New("meditation failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Base URL of the meditation API")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token of the meditation owner")
	return cmd
}
