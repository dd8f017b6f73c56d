package app

import (
	"context"
	"errors"

	"isrc-grabber/internal/client/deezer"
	"isrc-grabber/internal/config"
	"isrc-grabber/internal/logger"
	"isrc-grabber/internal/service/batch"
)

// ExecuteRootCommand is the entry point for the download command.
// It initializes the Deezer client and the queue store, then drains the
// pending queue.
func ExecuteRootCommand(ctx context.Context, cfg *config.Config) {
	deezerClient, err := deezer.NewClient(cfg)
	if err != nil {
		logger.Fatalf(ctx, "Failed to initialize Deezer client: %v", err)
	}

	store, err := batch.NewStore(cfg.DatabasePath)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open queue database: %v", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Errorf(ctx, "Failed to close queue database: %v", closeErr)
		}
	}()

	s := batch.NewService(cfg, deezerClient, store)

	// Ensure statistics are ALWAYS printed, even on panic.
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf(ctx, "Panic recovered: %v", r)
		}

		s.PrintDownloadSummary(ctx)
	}()

	logger.Info(ctx, "Starting mass download process")

	if err = s.ProcessPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf(ctx, "Download process failed: %v", err)

		return
	}

	logger.Info(ctx, "Mass download process completed")
}
