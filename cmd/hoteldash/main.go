// Package main is the entry point for the hoteldash CLI.
//
// hoteldash can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	hoteldash serve -c config.yaml    # Start the dashboard
//	hoteldash validate -c config.yaml # Validate configuration
//	hoteldash version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd only displays help; functionality lives in subcommands.
var rootCmd = &cobra.Command{
	Use:   "hoteldash",
	Short: "A live dashboard for hotel reservation services",
	Long: `hoteldash is a live dashboard for hotel reservation services.

It polls the stats, event stats and audit services at fixed intervals and
renders each as a panel in a web UI, pushed to the browser with
Server-Sent Events.

Quick start:
  1. Create a config file (hoteldash.yaml)
  2. Run: hoteldash serve -c hoteldash.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  stats:
    url: http://localhost:8100/stats
  event_stats:
    url: http://localhost:8120/event_stats
  audit:
    base_url: http://localhost:8110
    endpoints: [hotel_room, hotel_activity]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}

func main() {
	Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this hoteldash binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "hoteldash %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
