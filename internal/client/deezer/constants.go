package deezer

const (
	// gwLightURI is the URI path for the internal gateway endpoint.
	gwLightURI = "ajax/gw-light.php"
	// isrcLookupURI is the URI path prefix for ISRC resolution on the public API.
	isrcLookupURI = "2.0/track"
	// mediaURLURI is the URI path for the media URL negotiation endpoint.
	mediaURLURI = "v1/get_url"
)

const (
	// gwMethodGetUserData is the gateway method that establishes a session.
	gwMethodGetUserData = "deezer.getUserData"
	// gwMethodGetTrackData is the gateway method that returns track data.
	gwMethodGetTrackData = "song.getData"
	// gwInput is the constant "input" query parameter the gateway expects.
	gwInput = "3"
	// gwAPIVersion is the gateway API version query parameter.
	gwAPIVersion = "1.0"
)

// The single supported stream profile. The decryptor only understands the
// striped Blowfish-CBC cipher, so the format is not configurable.
const (
	mediaTypeFull = "FULL"
	trackCipher   = "BF_CBC_STRIPE"
	trackFormat   = "MP3_128"
)

const (
	// streamChunkSize is the fixed size of a payload chunk in bytes.
	streamChunkSize = 2048
	// encryptedChunkStride selects which chunks are encrypted: every chunk
	// whose 0-based ordinal is a multiple of this value, full-size only.
	encryptedChunkStride = 3
	// trackKeySize is the length of a derived per-track key in bytes.
	trackKeySize = 16
)

const (
	// resolvedIDsCacheSize defines the maximum number of ISRC-to-track-ID
	// resolutions to cache. The mapping is immutable, so entries never go
	// stale; track tokens are never cached.
	resolvedIDsCacheSize = 10000
)
