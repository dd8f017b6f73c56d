package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"isrc-grabber/internal/logger"
)

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}

	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	return fmt.Sprintf("%ds", seconds)
}

// registerOutcome records one terminal status in the run statistics.
func (s *ServiceImpl) registerOutcome(status string) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TotalProcessed++

	switch status {
	case StatusCompleted:
		s.stats.Completed++
	case StatusNotFound:
		s.stats.NotFound++
	case StatusURLError:
		s.stats.URLErrors++
	case StatusDownloadError:
		s.stats.DownloadErrors++
	case StatusFailed:
		s.stats.Failed++
	default:
		s.stats.UnexpectedErrors++
	}
}

// registerBytes adds a completed download's payload size to the statistics.
func (s *ServiceImpl) registerBytes(bytes int64) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	s.stats.TotalBytesDownloaded += bytes
}

// PrintDownloadSummary prints a formatted summary of the processing run.
func (s *ServiceImpl) PrintDownloadSummary(ctx context.Context) {
	s.statsMutex.Lock()
	defer s.statsMutex.Unlock()

	stats := s.stats

	// If nothing was processed, don't print a summary.
	if stats.TotalProcessed == 0 {
		return
	}

	wasInterrupted := ctx.Err() != nil

	logger.Info(ctx, "")
	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")

	if wasInterrupted {
		logger.Info(ctx, "           DOWNLOAD SUMMARY (Interrupted)")
	} else {
		logger.Info(ctx, "                     DOWNLOAD SUMMARY")
	}

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")
	logger.Infof(ctx, "Tracks:           %d total processed", stats.TotalProcessed)

	if stats.Completed > 0 {
		logger.Infof(ctx, "  Downloaded:      %d", stats.Completed)
	}

	if stats.NotFound > 0 {
		logger.Infof(ctx, "  Not Found:       %d", stats.NotFound)
	}

	if stats.URLErrors > 0 {
		logger.Infof(ctx, "  URL Errors:      %d", stats.URLErrors)
	}

	if stats.DownloadErrors > 0 {
		logger.Infof(ctx, "  Download Errors: %d", stats.DownloadErrors)
	}

	if stats.Failed > 0 {
		logger.Infof(ctx, "  Failed:          %d", stats.Failed)
	}

	if stats.UnexpectedErrors > 0 {
		logger.Infof(ctx, "  Unexpected:      %d", stats.UnexpectedErrors)
	}

	if stats.TotalProcessed > 0 {
		successRate := float64(stats.Completed) / float64(stats.TotalProcessed) * 100
		logger.Infof(ctx, "  Success Rate:    %.1f%%", successRate)
	}

	s.printDataTransferStatistics(ctx, stats)

	logger.Info(ctx, "═══════════════════════════════════════════════════════════════")

	if wasInterrupted {
		logger.Info(ctx, "")
		logger.Warn(ctx, "Download interrupted by user (CTRL+C).")

		if stats.Completed > 0 {
			logger.Infof(ctx, "Successfully downloaded %d track(s) before interruption.", stats.Completed)
		}
	}
}

// printDataTransferStatistics prints data transfer statistics.
func (s *ServiceImpl) printDataTransferStatistics(ctx context.Context, stats *DownloadStatistics) {
	if stats.TotalBytesDownloaded > 0 {
		logger.Info(ctx, "")
		//nolint:gosec // TotalBytesDownloaded is always positive, no overflow risk.
		logger.Infof(ctx, "Data Downloaded:  %s", humanize.Bytes(uint64(stats.TotalBytesDownloaded)))
	}

	if !stats.StartTime.IsZero() && !stats.EndTime.IsZero() {
		duration := stats.EndTime.Sub(stats.StartTime)

		// Only show if the duration is meaningful (> 100ms).
		if duration > 100*time.Millisecond {
			logger.Infof(ctx, "Duration:         %s", formatDuration(duration))

			if stats.TotalBytesDownloaded > 0 {
				bytesPerSecond := float64(stats.TotalBytesDownloaded) / duration.Seconds()
				logger.Infof(ctx, "Average Speed:    %s/s", humanize.Bytes(uint64(bytesPerSecond)))
			}
		}
	}
}
