package app

import (
	"context"

	"isrc-grabber/internal/config"
	"isrc-grabber/internal/logger"
	"isrc-grabber/internal/service/batch"
)

// ExecuteImportCommand loads ISRCs from a text file into the work queue.
func ExecuteImportCommand(ctx context.Context, cfg *config.Config, inputPath string) {
	store, err := batch.NewStore(cfg.DatabasePath)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open queue database: %v", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Errorf(ctx, "Failed to close queue database: %v", closeErr)
		}
	}()

	// Importing never downloads, so no client is needed.
	s := batch.NewService(cfg, nil, store)

	if _, err = s.ImportISRCs(ctx, inputPath); err != nil {
		logger.Fatalf(ctx, "Failed to import ISRCs: %v", err)
	}
}
