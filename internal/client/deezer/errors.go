package deezer

import "errors"

// Static error definitions for better error handling. Each sentinel marks a
// distinct failure kind; callers classify with errors.Is. None of them are
// retried inside the client.
var (
	// ErrSessionSetup indicates that the session handshake failed or returned
	// malformed data. The session stays unestablished and the next call
	// retries setup from scratch.
	ErrSessionSetup = errors.New("session setup failed")
	// ErrUnexpectedAPIStatus indicates a non-success HTTP status from a
	// backend API call.
	ErrUnexpectedAPIStatus = errors.New("unexpected API status")
	// ErrTrackNotFound indicates that the ISRC or track ID has no catalog
	// entry. This is an expected outcome for a meaningful fraction of inputs.
	ErrTrackNotFound = errors.New("track not found")
	// ErrNoTrackURL indicates that the track exists but no playable source
	// could be negotiated (entitlement, region, or format gap).
	ErrNoTrackURL = errors.New("no playable source")
	// ErrMediaDownload indicates that the payload transport itself failed.
	ErrMediaDownload = errors.New("media download failed")
	// ErrShortMasterKey indicates a master key shorter than the 16 bytes the
	// key derivation consumes. This is a configuration error, not retryable.
	ErrShortMasterKey = errors.New("master key shorter than 16 bytes")
)
