package batch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"isrc-grabber/internal/config"
)

// TestFormatDuration tests duration formatting across magnitudes.
func TestFormatDuration(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "milliseconds", duration: 250 * time.Millisecond, expected: "250ms"},
		{name: "seconds", duration: 45 * time.Second, expected: "45s"},
		{name: "minutes and seconds", duration: 3*time.Minute + 5*time.Second, expected: "3m 5s"},
		{name: "hours", duration: 2*time.Hour + 10*time.Minute + 30*time.Second, expected: "2h 10m 30s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, formatDuration(tc.duration))
		})
	}
}

// TestServiceImpl_RegisterOutcome tests the per-status counters.
func TestServiceImpl_RegisterOutcome(t *testing.T) {
	t.Parallel()

	service, ok := NewService(&config.Config{}, nil, nil).(*ServiceImpl)
	assert.True(t, ok)

	service.registerOutcome(StatusCompleted)
	service.registerOutcome(StatusCompleted)
	service.registerOutcome(StatusNotFound)
	service.registerOutcome(StatusURLError)
	service.registerOutcome(StatusDownloadError)
	service.registerOutcome(StatusFailed)
	service.registerOutcome("something else")
	service.registerBytes(1024)

	service.statsMutex.Lock()
	defer service.statsMutex.Unlock()

	assert.Equal(t, int64(7), service.stats.TotalProcessed)
	assert.Equal(t, int64(2), service.stats.Completed)
	assert.Equal(t, int64(1), service.stats.NotFound)
	assert.Equal(t, int64(1), service.stats.URLErrors)
	assert.Equal(t, int64(1), service.stats.DownloadErrors)
	assert.Equal(t, int64(1), service.stats.Failed)
	assert.Equal(t, int64(1), service.stats.UnexpectedErrors)
	assert.Equal(t, int64(1024), service.stats.TotalBytesDownloaded)
}

// TestServiceImpl_PrintDownloadSummary_Empty tests that an idle run prints nothing.
func TestServiceImpl_PrintDownloadSummary_Empty(t *testing.T) {
	t.Parallel()

	service, ok := NewService(&config.Config{}, nil, nil).(*ServiceImpl)
	assert.True(t, ok)

	// Must not panic with zero statistics.
	service.PrintDownloadSummary(context.Background())
}
