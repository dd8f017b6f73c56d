package cmd

import (
	"github.com/spf13/cobra"

	"isrc-grabber/internal/app"
	"isrc-grabber/internal/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the download queue status",
	Long: `Show how many queue items are in each status.

Pending items will be processed by the next download run; terminal
statuses record why an item did not complete.`,
	Args:             cobra.NoArgs,
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
			logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
		}

		app.ExecuteStatusCommand(cmd.Context(), appConfig)
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	statusCmd.Flags().String(
		"db",
		"",
		"path to the queue database file.")

	rootCmd.AddCommand(statusCmd)
}
