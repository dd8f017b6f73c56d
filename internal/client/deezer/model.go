package deezer

import "encoding/json"

// DownloadResult is the outcome of a successful end-to-end download.
type DownloadResult struct {
	// TrackID is the numeric track identifier the ISRC resolved to.
	TrackID int64
	// Track is the gateway track data fetched during the download.
	Track *TrackData
	// Data is the fully decrypted audio payload.
	Data []byte
}

// TrackData represents the gateway's track data. The track token is a
// one-shot credential consumed by the URL negotiation; the remaining fields
// are used for tagging the saved file.
type TrackData struct {
	// TrackToken authorizes a single download negotiation.
	TrackToken string `json:"TRACK_TOKEN"`
	// Title is the track title.
	Title string `json:"SNG_TITLE"`
	// Artist is the primary artist name.
	Artist string `json:"ART_NAME"`
	// Album is the album title.
	Album string `json:"ALB_TITLE"`
	// ISRC is the track's recording code as reported by the backend.
	ISRC string `json:"ISRC"`
}

// gwResponse is the envelope of every gateway response. Results stays nil
// when the key is absent, which the protocol uses to signal a missing track.
type gwResponse struct {
	Results json.RawMessage `json:"results"`
}

// userData is the results payload of the session handshake.
type userData struct {
	CheckForm string `json:"checkForm"`
	SessionID string `json:"SESSION_ID"`
	User      gwUser `json:"USER"`
}

type gwUser struct {
	Options gwUserOptions `json:"OPTIONS"`
}

type gwUserOptions struct {
	LicenseToken string `json:"license_token"`
}

// isrcLookupResponse is the public API response for an ISRC resolution.
// A present "error" key, whatever its contents, means the ISRC is unknown.
type isrcLookupResponse struct {
	ID    int64           `json:"id"`
	Error json.RawMessage `json:"error"`
}

// urlRequest is the media URL negotiation request body.
type urlRequest struct {
	LicenseToken string            `json:"license_token"`
	Media        []urlRequestMedia `json:"media"`
	TrackTokens  []string          `json:"track_tokens"`
}

type urlRequestMedia struct {
	Type    string             `json:"type"`
	Formats []urlRequestFormat `json:"formats"`
}

type urlRequestFormat struct {
	Cipher string `json:"cipher"`
	Format string `json:"format"`
}

// mediaResponse is the media URL negotiation response body. Each entry
// corresponds to one requested track token.
type mediaResponse struct {
	Data []mediaEntry `json:"data"`
}

// mediaEntry carries either a signed URL set or a per-track error. Errors
// stays nil when the key is absent.
type mediaEntry struct {
	Errors json.RawMessage `json:"errors"`
	Media  []mediaFormat   `json:"media"`
}

type mediaFormat struct {
	Sources []mediaSource `json:"sources"`
}

type mediaSource struct {
	URL string `json:"url"`
}
