package main

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "slacknuke",
	Short: "Slacknuke - delete your own messages across a Slack workspace",
	Long: `Slacknuke walks every conversation you are a member of and deletes the
messages you authored, one by one, backing off when the API rate-limits.
Conversations found fully clean are cached locally so interrupted runs
resume where they left off.`,
	Version: Version,
}

func init() {
	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(runCmd)
}
