package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"isrc-grabber/internal/app"
	"isrc-grabber/internal/config"
	"isrc-grabber/internal/logger"
	"isrc-grabber/internal/version"
)

var (
	//nolint:gochecknoglobals // It is required for configuration initialization before the application starts.
	configFilenameFromFlag string

	//nolint:gochecknoglobals,lll // It is initialized once during the application's startup and shared across the command execution logic.
	appConfig *config.Config

	//nolint:gochecknoglobals,lll // Cobra command requires a global definition for proper command-line parsing and execution.
	rootCmd = &cobra.Command{
		Use:   "isrc-grabber [flags]",
		Short: "Download tracks from Deezer by ISRC in bulk.",
		Long: `ISRC Grabber is a CLI tool for mass-downloading tracks from Deezer.

ISRCs are imported into a local queue database and processed in batches:
each track is resolved, downloaded, decrypted, and saved under its own
directory together with a lyrics document. The queue survives restarts,
so an interrupted run picks up where it left off.

Typical workflow:
  isrc-grabber key set <master-key>
  isrc-grabber import isrcs.txt
  isrc-grabber`,
		Args:             cobra.NoArgs,
		PersistentPreRun: initConfig,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := bindFlagsToConfig(cmd.Flags(), appConfig); err != nil {
				logger.Fatalf(cmd.Context(), "Failed to parse flags: %v", err)
			}

			app.ExecuteRootCommand(cmd.Context(), appConfig)
		},
	}
)

// Execute executes the root command.
func Execute() {
	signals := []os.Signal{syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM}
	ctx, stop := signal.NotifyContext(context.Background(), signals...)

	defer func() {
		_ = logger.Logger().Sync()
	}()

	defer stop()

	go func() {
		defer stop()

		err := rootCmd.ExecuteContext(ctx)
		cobra.CheckErr(err)
	}()

	<-ctx.Done()
}

//nolint:gochecknoinits // Cobra requires the init function to set up flags before the command is executed.
func init() {
	rootCmd.Version = version.Full()

	rootCmd.PersistentFlags().StringVarP(
		&configFilenameFromFlag,
		"config",
		"c",
		"",
		fmt.Sprintf("path to the configuration file (default is '%s')",
			config.DefaultConfigFilename))

	rootCmdFlags := rootCmd.Flags()

	rootCmdFlags.StringP(
		"output",
		"o",
		"",
		"directory to save downloaded tracks (the path will be created if it doesn't exist).")

	rootCmdFlags.String(
		"db",
		"",
		"path to the queue database file.")

	rootCmdFlags.Int64P(
		"batch-size",
		"b",
		0,
		"number of queue items fetched per batch.")
}

func initConfig(cmd *cobra.Command, _ []string) {
	var err error

	appConfig, err = config.LoadConfig(configFilenameFromFlag)
	if err != nil {
		logger.Fatalf(cmd.Context(), "Failed to load configuration: %v", err)
	}

	logger.SetLevel(appConfig.ParsedLogLevel)
}

func bindFlagsToConfig(flags *pflag.FlagSet, cfg *config.Config) error {
	if flag := flags.Lookup("output"); flag != nil && flag.Changed {
		cfg.OutputPath, _ = flags.GetString("output")
	}

	if flag := flags.Lookup("db"); flag != nil && flag.Changed {
		cfg.DatabasePath, _ = flags.GetString("db")
	}

	if flag := flags.Lookup("batch-size"); flag != nil && flag.Changed {
		cfg.BatchSize, _ = flags.GetInt64("batch-size")
	}

	return config.ValidateConfig(cfg)
}
