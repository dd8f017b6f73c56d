package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"isrc-grabber/internal/client/deezer"
	mock_deezer "isrc-grabber/internal/client/deezer/mocks"
	"isrc-grabber/internal/config"
	"isrc-grabber/internal/constants"
)

func newTestService(t *testing.T, client deezer.Client) (*ServiceImpl, *Store, string) {
	t.Helper()

	outputPath := t.TempDir()
	store := newTestStore(t)

	cfg := &config.Config{
		OutputPath: outputPath,
		BatchSize:  10,
	}

	service, ok := NewService(cfg, client, store).(*ServiceImpl)
	require.True(t, ok)

	return service, store, outputPath
}

func writeISRCFile(t *testing.T, lines string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "isrcs.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), constants.DefaultFilePermissions))

	return path
}

// TestService_ImportISRCs tests importing a text file with duplicates and
// blank lines.
func TestService_ImportISRCs(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mock_deezer.NewMockClient(ctrl)

	service, store, _ := newTestService(t, client)

	inputPath := writeISRCFile(t, "USABC1234567\n\nGBXYZ7654321\nUSABC1234567\n")

	added, err := service.ImportISRCs(context.Background(), inputPath)
	require.NoError(t, err)
	assert.Equal(t, int64(2), added)

	counts, err := store.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[StatusPending])
}

// TestService_ImportISRCs_MissingFile tests that a missing input file is an error.
func TestService_ImportISRCs_MissingFile(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mock_deezer.NewMockClient(ctrl)

	service, _, _ := newTestService(t, client)

	_, err := service.ImportISRCs(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.ErrorIs(t, err, ErrInputFileNotFound)
}

// TestService_ProcessPending_Success tests the happy path: the payload and
// the lyrics document land in the item's directory and the item completes.
func TestService_ProcessPending_Success(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mock_deezer.NewMockClient(ctrl)

	service, store, outputPath := newTestService(t, client)
	ctx := context.Background()

	_, err := store.ImportISRCs(ctx, []string{"USABC1234567"})
	require.NoError(t, err)
	require.NoError(t, store.SetLyrics(ctx, "USABC1234567", []byte(`{"text":"la la"}`), nil))

	payload := []byte("decrypted audio bytes")
	client.EXPECT().
		DownloadTrack(gomock.Any(), "USABC1234567").
		Return(&deezer.DownloadResult{
			TrackID: 3135556,
			Track: &deezer.TrackData{
				Title:  "Get Lucky",
				Artist: "Daft Punk",
				Album:  "Random Access Memories",
				ISRC:   "USABC1234567",
			},
			Data: payload,
		}, nil)

	require.NoError(t, service.ProcessPending(ctx))

	audioPath := filepath.Join(outputPath, "USABC1234567", constants.AudioFilename)
	audio, err := os.ReadFile(audioPath)
	require.NoError(t, err)
	// Tagging may prepend an ID3 header, but the payload must survive intact.
	assert.True(t, len(audio) >= len(payload))
	assert.Equal(t, payload, audio[len(audio)-len(payload):])

	lyricsPath := filepath.Join(outputPath, "USABC1234567", constants.LyricsFilename)
	lyrics, err := os.ReadFile(lyricsPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"unsynced":{"text":"la la"},"synced":{}}`, string(lyrics))

	counts, err := store.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{StatusCompleted: 1}, counts)

	service.statsMutex.Lock()
	defer service.statsMutex.Unlock()
	assert.Equal(t, int64(1), service.stats.Completed)
	assert.Equal(t, int64(len(payload)), service.stats.TotalBytesDownloaded)
}

// TestService_ProcessPending_StatusMapping tests that download errors map to
// the right terminal statuses.
func TestService_ProcessPending_StatusMapping(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "track not found", err: deezer.ErrTrackNotFound, expected: StatusNotFound},
		{name: "no playable source", err: deezer.ErrNoTrackURL, expected: StatusURLError},
		{name: "media download failed", err: deezer.ErrMediaDownload, expected: StatusDownloadError},
		{name: "session setup failed", err: deezer.ErrSessionSetup, expected: StatusUnexpectedError},
		{name: "unexpected API status", err: deezer.ErrUnexpectedAPIStatus, expected: StatusUnexpectedError},
		{name: "unknown error", err: errors.New("boom"), expected: StatusUnexpectedError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			client := mock_deezer.NewMockClient(ctrl)

			service, store, _ := newTestService(t, client)
			ctx := context.Background()

			_, err := store.ImportISRCs(ctx, []string{"USABC1234567"})
			require.NoError(t, err)

			client.EXPECT().
				DownloadTrack(gomock.Any(), "USABC1234567").
				Return(nil, fmt.Errorf("%w: details", tc.err))

			require.NoError(t, service.ProcessPending(ctx))

			counts, countsErr := store.StatusCounts(ctx)
			require.NoError(t, countsErr)
			assert.Equal(t, map[string]int64{tc.expected: 1}, counts)
		})
	}
}

// TestService_ProcessPending_EmptyPayload tests that an empty payload marks
// the item as failed.
func TestService_ProcessPending_EmptyPayload(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mock_deezer.NewMockClient(ctrl)

	service, store, _ := newTestService(t, client)
	ctx := context.Background()

	_, err := store.ImportISRCs(ctx, []string{"USABC1234567"})
	require.NoError(t, err)

	client.EXPECT().
		DownloadTrack(gomock.Any(), "USABC1234567").
		Return(&deezer.DownloadResult{TrackID: 1}, nil)

	require.NoError(t, service.ProcessPending(ctx))

	counts, err := store.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{StatusFailed: 1}, counts)
}

// TestService_ProcessPending_DrainsQueue tests that processing continues in
// batches until no pending items remain.
func TestService_ProcessPending_DrainsQueue(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mock_deezer.NewMockClient(ctrl)

	service, store, _ := newTestService(t, client)
	service.cfg.BatchSize = 2

	ctx := context.Background()

	isrcs := []string{"AAAAA1111111", "BBBBB2222222", "CCCCC3333333", "DDDDD4444444", "EEEEE5555555"}
	_, err := store.ImportISRCs(ctx, isrcs)
	require.NoError(t, err)

	client.EXPECT().
		DownloadTrack(gomock.Any(), gomock.Any()).
		Return(nil, deezer.ErrTrackNotFound).
		Times(len(isrcs))

	require.NoError(t, service.ProcessPending(ctx))

	counts, err := store.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{StatusNotFound: int64(len(isrcs))}, counts)
}

// TestService_ProcessPending_EmptyQueue tests that an empty queue is a no-op.
func TestService_ProcessPending_EmptyQueue(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mock_deezer.NewMockClient(ctrl)

	service, _, _ := newTestService(t, client)

	require.NoError(t, service.ProcessPending(context.Background()))
}

// TestService_ProcessPending_CanceledLeavesPending tests that a canceled
// download leaves the item pending for the next run.
func TestService_ProcessPending_CanceledLeavesPending(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	client := mock_deezer.NewMockClient(ctrl)

	service, store, _ := newTestService(t, client)

	ctx, cancel := context.WithCancel(context.Background())

	_, err := store.ImportISRCs(ctx, []string{"USABC1234567"})
	require.NoError(t, err)

	client.EXPECT().
		DownloadTrack(gomock.Any(), "USABC1234567").
		DoAndReturn(func(context.Context, string) (*deezer.DownloadResult, error) {
			cancel()

			return nil, context.Canceled
		})

	require.ErrorIs(t, service.ProcessPending(ctx), context.Canceled)

	counts, err := store.StatusCounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{StatusPending: 1}, counts)
}

// TestStatusForError tests the error-to-status mapping directly.
func TestStatusForError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, StatusNotFound, statusForError(fmt.Errorf("wrapped: %w", deezer.ErrTrackNotFound)))
	assert.Equal(t, StatusURLError, statusForError(deezer.ErrNoTrackURL))
	assert.Equal(t, StatusDownloadError, statusForError(deezer.ErrMediaDownload))
	assert.Equal(t, StatusUnexpectedError, statusForError(errors.New("boom")))
}
