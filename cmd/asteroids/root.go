package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set by build flags in production).
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "asteroids",
		Short: "Largest near-Earth objects from the NASA NeoWs feed",
		Long: `asteroids queries the NASA NeoWs feed for a window of days starting
today (UTC) and reports the three largest objects by average estimated
diameter, either over HTTP (serve) or once on the command line (top).

The feed endpoint and API key are read from ASTEROIDS_NEO_BASE_URL and
ASTEROIDS_NEO_API_KEY; both are required.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newTopCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "asteroids version %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", GitCommit)
			fmt.Fprintf(out, "  built:  %s\n", BuildDate)
		},
	}
}
