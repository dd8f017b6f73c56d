// Package deezer provides a Go client for downloading tracks from Deezer by
// ISRC. It talks to both the internal gateway API and the public REST API:
// an anonymous session yields the API and license tokens, the public API
// resolves an ISRC to a track ID, the gateway returns track data with a
// one-shot track token, and the media API exchanges that token for a signed
// CDN URL. The streamed payload is decrypted incrementally with a per-track
// Blowfish key derived from the configured master secret. A built-in rate
// limiter bounds concurrent downloads and enforces a minimum spacing between
// them, and structured errors let callers tell expected catalog gaps apart
// from transport failures.
package deezer
