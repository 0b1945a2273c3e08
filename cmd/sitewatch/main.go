// Package main is the entry point for the sitewatch CLI.
//
// sitewatch probes a set of URLs concurrently and validates response
// headers. In periodic mode it keeps rolling uptime and latency statistics
// per URL until stopped.
//
// Usage:
//
//	sitewatch check https://example.org https://httpbin.org/status/503
//	sitewatch check --period 15s --retries 1 --file urls.txt
//	sitewatch version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "sitewatch",
	Short: "Concurrent website health checker",
	Long: `sitewatch distributes a set of URLs across a bounded worker pool,
probes each with configurable timeout, retries, and response-header
validation, and reports per-URL results.

With --period it repeats the pass on an interval and aggregates rolling
uptime and latency statistics until stopped (ENTER, SIGINT/SIGTERM, or
POST /api/stop on the admin endpoint).`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sitewatch %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
