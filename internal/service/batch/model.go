package batch

import (
	"encoding/json"
	"time"
)

// Queue item statuses. An item starts as pending and ends in exactly one of
// the terminal statuses; the terminal status records why an item did not
// complete, so reruns and reporting can tell catalog gaps from failures.
const (
	// StatusPending marks an item that has not been processed yet.
	StatusPending = "pending"
	// StatusCompleted marks a fully downloaded and saved item.
	StatusCompleted = "completed"
	// StatusFailed marks an item whose download produced an empty payload.
	StatusFailed = "failed"
	// StatusNotFound marks an ISRC with no catalog entry.
	StatusNotFound = "not_found"
	// StatusURLError marks an item for which no playable source was negotiated.
	StatusURLError = "url_error"
	// StatusDownloadError marks an item whose payload transport failed.
	StatusDownloadError = "download_error"
	// StatusUnexpectedError marks any failure outside the known kinds.
	StatusUnexpectedError = "unexpected_error"
)

// Item is one row of the work queue.
type Item struct {
	// ISRC is the item's recording code and primary key.
	ISRC string
	// Status is the item's current queue status.
	Status string
	// ErrorMessage holds the failure description for non-completed items.
	ErrorMessage string
	// LyricsUnsynced is the plain lyrics JSON object imported with the item.
	LyricsUnsynced json.RawMessage
	// LyricsSynced is the time-coded lyrics JSON object imported with the item.
	LyricsSynced json.RawMessage
}

// lyricsFile is the schema of the lyrics document saved next to the audio.
type lyricsFile struct {
	Unsynced json.RawMessage `json:"unsynced"`
	Synced   json.RawMessage `json:"synced"`
}

// DownloadStatistics aggregates the outcomes of one processing run.
type DownloadStatistics struct {
	// StartTime is when processing started.
	StartTime time.Time
	// EndTime is when processing finished.
	EndTime time.Time
	// TotalProcessed is the number of items that reached a terminal status.
	TotalProcessed int64
	// Completed is the number of fully downloaded items.
	Completed int64
	// NotFound is the number of ISRCs with no catalog entry.
	NotFound int64
	// URLErrors is the number of failed URL negotiations.
	URLErrors int64
	// DownloadErrors is the number of failed payload transfers.
	DownloadErrors int64
	// Failed is the number of empty-payload downloads.
	Failed int64
	// UnexpectedErrors is the number of failures outside the known kinds.
	UnexpectedErrors int64
	// TotalBytesDownloaded is the decrypted payload volume of completed items.
	TotalBytesDownloaded int64
}
