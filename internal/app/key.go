package app

import (
	"context"

	"isrc-grabber/internal/config"
	"isrc-grabber/internal/logger"
)

// ExecuteKeySetCommand validates the master key and stores it in the
// configuration file.
func ExecuteKeySetCommand(ctx context.Context, cfg *config.Config, masterKey string) {
	cfg.MasterKey = masterKey

	if err := config.ValidateMasterKey(cfg); err != nil {
		logger.Fatalf(ctx, "Invalid master key: %v", err)
	}

	if err := config.SaveConfig(cfg); err != nil {
		logger.Fatalf(ctx, "Failed to save configuration: %v", err)
	}

	logger.Info(ctx, "Configuration updated successfully!")
	logger.Info(ctx, "You can now import ISRCs and start downloading:")
	logger.Info(ctx, "  isrc-grabber import isrcs.txt")
	logger.Info(ctx, "  isrc-grabber")
}
