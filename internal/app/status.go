package app

import (
	"context"
	"sort"

	"isrc-grabber/internal/config"
	"isrc-grabber/internal/logger"
	"isrc-grabber/internal/service/batch"
)

// ExecuteStatusCommand prints the number of queue items per status.
func ExecuteStatusCommand(ctx context.Context, cfg *config.Config) {
	store, err := batch.NewStore(cfg.DatabasePath)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open queue database: %v", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Errorf(ctx, "Failed to close queue database: %v", closeErr)
		}
	}()

	counts, err := store.StatusCounts(ctx)
	if err != nil {
		logger.Fatalf(ctx, "Failed to read queue status: %v", err)
	}

	if len(counts) == 0 {
		logger.Info(ctx, "The queue is empty")

		return
	}

	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}

	sort.Strings(statuses)

	var total int64

	for _, status := range statuses {
		logger.Infof(ctx, "%-17s %d", status+":", counts[status])
		total += counts[status]
	}

	logger.Infof(ctx, "%-17s %d", "total:", total)
}
