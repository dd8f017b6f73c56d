package batch

//go:generate $MOCKGEN -source=service.go -destination=mocks/service_mock.go

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"isrc-grabber/internal/client/deezer"
	"isrc-grabber/internal/config"
	"isrc-grabber/internal/constants"
	"isrc-grabber/internal/logger"
	"isrc-grabber/internal/utils"
)

// ErrInputFileNotFound is returned when the ISRC input file does not exist.
var ErrInputFileNotFound = errors.New("input file not found")

// Service provides batch import and processing of the download queue.
type Service interface {
	// ImportISRCs loads ISRCs from a text file into the queue as pending
	// items. Duplicate and already-queued codes are skipped.
	ImportISRCs(ctx context.Context, inputPath string) (int64, error)
	// ProcessPending downloads pending queue items batch by batch until the
	// queue is drained or the context is canceled.
	ProcessPending(ctx context.Context) error
	// StatusCounts returns the number of queue items per status.
	StatusCounts(ctx context.Context) (map[string]int64, error)
	// PrintDownloadSummary prints a formatted summary of the processing run.
	PrintDownloadSummary(ctx context.Context)
}

// ServiceImpl implements the batch download service.
type ServiceImpl struct {
	// cfg contains the application configuration.
	cfg *config.Config
	// deezerClient downloads and decrypts tracks.
	deezerClient deezer.Client
	// store persists the work queue.
	store *Store
	// stats tracks outcomes for the current run.
	stats *DownloadStatistics
	// statsMutex protects concurrent access to statistics.
	statsMutex *sync.Mutex
}

// NewService creates a batch service instance with dependency-injected components.
func NewService(cfg *config.Config, deezerClient deezer.Client, store *Store) Service {
	return &ServiceImpl{
		cfg:          cfg,
		deezerClient: deezerClient,
		store:        store,
		stats:        new(DownloadStatistics),
		statsMutex:   new(sync.Mutex),
	}
}

// ImportISRCs loads ISRCs from a text file into the queue.
func (s *ServiceImpl) ImportISRCs(ctx context.Context, inputPath string) (int64, error) {
	exists, err := utils.IsFileExist(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to check ISRC file: %w", err)
	}

	if !exists {
		return 0, fmt.Errorf("%w: %s", ErrInputFileNotFound, inputPath)
	}

	isrcs, err := utils.ReadUniqueLinesFromFile(inputPath)
	if err != nil {
		return 0, fmt.Errorf("failed to read ISRC file: %w", err)
	}

	added, err := s.store.ImportISRCs(ctx, isrcs)
	if err != nil {
		return added, err
	}

	logger.Infof(ctx, "Imported %d new ISRC(s) out of %d in %s", added, len(isrcs), inputPath)

	return added, nil
}

// StatusCounts returns the number of queue items per status.
func (s *ServiceImpl) StatusCounts(ctx context.Context) (map[string]int64, error) {
	return s.store.StatusCounts(ctx)
}

// ProcessPending drains the pending queue. Items of each batch are processed
// concurrently; the client's rate limiter bounds how many downloads actually
// run at once, so the batch size only controls queue fetch granularity.
func (s *ServiceImpl) ProcessPending(ctx context.Context) error {
	s.statsMutex.Lock()
	s.stats.StartTime = time.Now()
	s.statsMutex.Unlock()

	defer func() {
		s.statsMutex.Lock()
		s.stats.EndTime = time.Now()
		s.statsMutex.Unlock()
	}()

	if err := os.MkdirAll(s.cfg.OutputPath, constants.DefaultFolderPermissions); err != nil {
		return fmt.Errorf("failed to create output path: %w", err)
	}

	counts, err := s.store.StatusCounts(ctx)
	if err != nil {
		return err
	}

	pendingTotal := counts[StatusPending]
	if pendingTotal == 0 {
		logger.Info(ctx, "No tracks to download")

		return nil
	}

	logger.Infof(ctx, "Starting download of %d pending track(s)", pendingTotal)

	bar := progressbar.Default(pendingTotal, "downloading")
	defer func() {
		_ = bar.Finish()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		items, fetchErr := s.store.FetchPending(ctx, s.cfg.BatchSize)
		if fetchErr != nil {
			return fetchErr
		}

		if len(items) == 0 {
			logger.Info(ctx, "No more tracks to download")

			return nil
		}

		logger.Infof(ctx, "Processing batch of %d track(s)", len(items))
		logger.Debugf(ctx, "Batch contents: %s",
			strings.Join(utils.Map(items, func(item *Item) string { return item.ISRC }), ", "))

		s.processBatch(ctx, items, bar)

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// processBatch downloads one batch of items concurrently.
func (s *ServiceImpl) processBatch(ctx context.Context, items []*Item, bar *progressbar.ProgressBar) {
	var wg sync.WaitGroup

	for _, item := range items {
		wg.Add(1)

		go func() {
			defer wg.Done()

			s.processItem(ctx, item)

			_ = bar.Add(1)
		}()
	}

	wg.Wait()
}

// processItem downloads a single item and records its terminal status.
func (s *ServiceImpl) processItem(ctx context.Context, item *Item) {
	result, err := s.deezerClient.DownloadTrack(ctx, item.ISRC)
	if err != nil {
		s.handleDownloadError(ctx, item, err)

		return
	}

	if len(result.Data) == 0 {
		logger.Warnf(ctx, "Failed to download %s: empty payload", item.ISRC)
		s.finishItem(ctx, item.ISRC, StatusFailed, "empty payload")

		return
	}

	if err = s.saveTrackFiles(ctx, item, result); err != nil {
		logger.Errorf(ctx, "Failed to save files for %s: %v", item.ISRC, err)
		s.finishItem(ctx, item.ISRC, StatusUnexpectedError, err.Error())

		return
	}

	logger.Infof(ctx, "Successfully downloaded and saved %s", item.ISRC)
	s.registerBytes(int64(len(result.Data)))
	s.finishItem(ctx, item.ISRC, StatusCompleted, "")
}

// handleDownloadError classifies a download failure and records it. A
// canceled context leaves the item pending so the next run retries it.
func (s *ServiceImpl) handleDownloadError(ctx context.Context, item *Item, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Debugf(ctx, "Download of %s interrupted, leaving it pending", item.ISRC)

		return
	}

	status := statusForError(err)
	if status == StatusNotFound {
		logger.Warnf(ctx, "Track not found for ISRC %s: %v", item.ISRC, err)
	} else {
		logger.Errorf(ctx, "Failed to download %s: %v", item.ISRC, err)
	}

	s.finishItem(ctx, item.ISRC, status, err.Error())
}

// finishItem persists the terminal status and updates the run statistics.
// The write uses a detached context so an interrupt arriving after the
// download does not lose the outcome.
func (s *ServiceImpl) finishItem(ctx context.Context, isrc, status, errorMessage string) {
	s.registerOutcome(status)

	if err := s.store.SetStatus(context.WithoutCancel(ctx), isrc, status, errorMessage); err != nil {
		logger.Errorf(ctx, "Failed to update status for %s: %v", isrc, err)
	}
}

// statusForError maps a download error to a terminal queue status.
func statusForError(err error) string {
	switch {
	case errors.Is(err, deezer.ErrTrackNotFound):
		return StatusNotFound
	case errors.Is(err, deezer.ErrNoTrackURL):
		return StatusURLError
	case errors.Is(err, deezer.ErrMediaDownload):
		return StatusDownloadError
	default:
		return StatusUnexpectedError
	}
}
