package batch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages work queue persistence backed by SQLite.
type Store struct {
	db *sql.DB
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tracks (
	isrc            TEXT PRIMARY KEY,
	status          TEXT NOT NULL DEFAULT 'pending',
	error           TEXT NOT NULL DEFAULT '',
	lyrics_unsynced TEXT NOT NULL DEFAULT '{}',
	lyrics_synced   TEXT NOT NULL DEFAULT '{}',
	created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tracks_status ON tracks (status);
`

// NewStore initializes or connects to the queue database at the given path.
func NewStore(databasePath string) (*Store, error) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open queue database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()

			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err = db.Exec(schemaSQL); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to create queue schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}

	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}

	message := err.Error()

	return strings.Contains(message, "SQLITE_BUSY") || strings.Contains(message, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	var lastErr error

	delay := busyRetryInitialBackoff

	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}

	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		result  sql.Result
		execErr error
	)

	if err := retryOnBusy(ctx, func() error {
		result, execErr = s.db.ExecContext(ctx, query, args...)

		return execErr
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// ImportISRCs inserts the given ISRCs as pending items, skipping ones that
// are already queued. Returns the number of newly added items.
func (s *Store) ImportISRCs(ctx context.Context, isrcs []string) (int64, error) {
	var added int64

	for _, isrc := range isrcs {
		isrc = strings.TrimSpace(isrc)
		if isrc == "" {
			continue
		}

		result, err := s.execWithRetry(ctx,
			"INSERT OR IGNORE INTO tracks (isrc) VALUES (?)", isrc)
		if err != nil {
			return added, fmt.Errorf("failed to queue ISRC %q: %w", isrc, err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return added, fmt.Errorf("failed to read insert result: %w", err)
		}

		added += affected
	}

	return added, nil
}

// FetchPending returns up to limit pending items in insertion order.
func (s *Store) FetchPending(ctx context.Context, limit int64) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT isrc, status, error, lyrics_unsynced, lyrics_synced
		 FROM tracks
		 WHERE status = ?
		 ORDER BY created_at, isrc
		 LIMIT ?`,
		StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending items: %w", err)
	}
	defer rows.Close()

	var items []*Item

	for rows.Next() {
		var (
			item                         Item
			lyricsUnsynced, lyricsSynced string
		)

		if err = rows.Scan(&item.ISRC, &item.Status, &item.ErrorMessage,
			&lyricsUnsynced, &lyricsSynced); err != nil {
			return nil, fmt.Errorf("failed to scan queue item: %w", err)
		}

		item.LyricsUnsynced = []byte(lyricsUnsynced)
		item.LyricsSynced = []byte(lyricsSynced)

		items = append(items, &item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pending items: %w", err)
	}

	return items, nil
}

// SetStatus updates an item's status and error message.
func (s *Store) SetStatus(ctx context.Context, isrc, status, errorMessage string) error {
	_, err := s.execWithRetry(ctx,
		`UPDATE tracks
		 SET status = ?, error = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE isrc = ?`,
		status, errorMessage, isrc)
	if err != nil {
		return fmt.Errorf("failed to update status for ISRC %q: %w", isrc, err)
	}

	return nil
}

// SetLyrics replaces an item's lyrics documents.
func (s *Store) SetLyrics(ctx context.Context, isrc string, unsynced, synced []byte) error {
	if len(unsynced) == 0 {
		unsynced = []byte("{}")
	}

	if len(synced) == 0 {
		synced = []byte("{}")
	}

	_, err := s.execWithRetry(ctx,
		`UPDATE tracks
		 SET lyrics_unsynced = ?, lyrics_synced = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE isrc = ?`,
		string(unsynced), string(synced), isrc)
	if err != nil {
		return fmt.Errorf("failed to update lyrics for ISRC %q: %w", isrc, err)
	}

	return nil
}

// StatusCounts returns the number of items per status.
func (s *Store) StatusCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(1) FROM tracks GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)

	for rows.Next() {
		var (
			status string
			count  int64
		)

		if err = rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}

		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	return counts, nil
}
