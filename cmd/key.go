package cmd

import (
	"github.com/spf13/cobra"

	"isrc-grabber/internal/app"
)

var (
	keyCmd = &cobra.Command{
		Use:   "key",
		Short: "Master key management commands",
		Long: `Manage the decryption master key.

Use 'key set' to store the master key in the configuration file.`,
	}

	keySetCmd = &cobra.Command{
		Use:   "set {master-key}",
		Short: "Store the master key in the configuration file",
		Long: `Store the decryption master key in the configuration file.

The key must be at least 16 ASCII characters; only the first 16 are used
for key derivation. The rest of the configuration file is left untouched,
including its comments and ordering.`,
		Args:             cobra.ExactArgs(1),
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteKeySetCommand(cmd.Context(), appConfig, args[0])
		},
	}
)

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	// Add set subcommand to key command.
	keyCmd.AddCommand(keySetCmd)

	// Add key command to root command.
	rootCmd.AddCommand(keyCmd)
}
