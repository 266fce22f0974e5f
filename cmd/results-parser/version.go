package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "results-parser %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  Go:     %s\n", runtime.Version())
		fmt.Fprintf(cmd.OutOrStdout(), "  Commit: %s\n", commit)
	},
}
