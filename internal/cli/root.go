// Package cli implements the timetracker command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/jqntn/timetracker/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "Background time tracking agent",
	Long: `timetracker runs in the notification area. Click the icon to open the
records window; use the menu to toggle run at startup and auto update.

Only one agent runs per user session.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runAgent,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(windowCmd)
}
