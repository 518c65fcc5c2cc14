package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidsl88/asteroids/internal/api"
	"github.com/davidsl88/asteroids/internal/neo"
)

func newTopCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Print the largest near-Earth objects for today through today+days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 0 {
				return fmt.Errorf("--days must not be negative, got %d", days)
			}

			// stdout carries the result; logs go to stderr.
			logger := newLogger(cmd.ErrOrStderr(), loadLogLevel())

			clientCfg, err := loadClientConfig(logger)
			if err != nil {
				return err
			}
			fetcher := neo.NewFetcher(clientCfg, logger, neo.WithTimeout(loadFeedTimeout(logger)))

			neos, err := fetcher.FetchTop(cmd.Context(), days)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(api.ToResponse(neos))
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 0, "number of days after today to include")

	return cmd
}
