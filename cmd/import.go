package cmd

import (
	"github.com/spf13/cobra"

	"isrc-grabber/internal/app"
	"isrc-grabber/internal/logger"
)

var importCmd = &cobra.Command{
	Use:   "import {file}",
	Short: "Import ISRCs from a text file into the download queue",
	Long: `Import ISRCs into the download queue.

The input file holds one ISRC per line. Blank lines and duplicates are
skipped, and codes that are already queued keep their current status.
Run the tool without a subcommand afterwards to download the queue.`,
	Args:             cobra.ExactArgs(1),
	PersistentPreRun: initConfig,
	Run: func(cmd *cobra.Command, args []string) {
		if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
			logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
		}

		app.ExecuteImportCommand(cmd.Context(), appConfig, args[0])
	},
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	importCmd.Flags().String(
		"db",
		"",
		"path to the queue database file.")

	rootCmd.AddCommand(importCmd)
}
