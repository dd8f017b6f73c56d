package deezer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"

	"isrc-grabber/internal/config"
	"isrc-grabber/internal/logger"
	transport "isrc-grabber/internal/transport/http"
	"isrc-grabber/internal/utils"
)

//go:generate $MOCKGEN -source=client.go -destination=mocks/client_mock.go

// Client defines the interface for downloading tracks by ISRC.
type Client interface {
	// DownloadTrack resolves the ISRC to a track, negotiates a signed media
	// URL, and returns the decrypted audio payload together with the track
	// data. The call blocks until the rate limiter admits it.
	DownloadTrack(ctx context.Context, isrc string) (*DownloadResult, error)
}

// ClientImpl implements the Client interface.
type ClientImpl struct {
	cfg        *config.Config
	httpClient *http.Client
	limiter    *requestLimiter
	session    *session
	// resolvedIDs caches ISRC-to-track-ID resolutions. The mapping never
	// changes upstream, so cached entries are served without revalidation.
	resolvedIDs *lru.Cache[string, int64]
}

// NewClient creates a new Deezer client with the provided configuration.
func NewClient(cfg *config.Config) (Client, error) {
	resolvedIDs, err := lru.New[string, int64](resolvedIDsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resolution cache: %w", err)
	}

	var baseTransport http.RoundTripper = http.DefaultTransport
	if cfg.RelaxedTLS {
		baseTransport = transport.NewRelaxedTLSTransport()
	}

	timeout := cfg.ParsedRequestTimeout
	if timeout <= 0 {
		timeout = transport.DefaultTimeout
	}

	maxConcurrent := cfg.MaxConcurrentDownloads
	if maxConcurrent <= 0 {
		maxConcurrent = config.DefaultMaxConcurrentDownloads
	}

	minInterval := cfg.ParsedMinRequestInterval
	if minInterval <= 0 {
		minInterval = config.DefaultMinRequestInterval
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Transport: transport.NewUserAgentInjector(
			transport.NewLogTransport(baseTransport, config.DefaultMaxLogLength),
			utils.NewSimpleUserAgentProvider(transport.DefaultUserAgent)),
	}

	return &ClientImpl{
		cfg:         cfg,
		httpClient:  httpClient,
		limiter:     newRequestLimiter(maxConcurrent, minInterval),
		session:     &session{},
		resolvedIDs: resolvedIDs,
	}, nil
}

// DownloadTrack runs the full download pipeline for one ISRC. The whole
// pipeline executes inside a single rate-limiter slot, so the concurrency
// bound and the spacing apply per track, not per HTTP request.
func (c *ClientImpl) DownloadTrack(ctx context.Context, isrc string) (*DownloadResult, error) {
	if err := c.limiter.acquire(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire download slot: %w", err)
	}
	defer c.limiter.release()

	logger.Debugf(ctx, "Starting download for ISRC: %s", isrc)

	trackID, err := c.resolveTrackID(ctx, isrc)
	if err != nil {
		return nil, err
	}

	track, err := c.getTrackData(ctx, trackID)
	if err != nil {
		return nil, err
	}

	trackURL, err := c.negotiateTrackURL(ctx, track.TrackToken)
	if err != nil {
		return nil, err
	}

	data, err := c.downloadTrackPayload(ctx, trackURL, trackID)
	if err != nil {
		return nil, err
	}

	logger.Debugf(ctx, "Downloaded track %d for ISRC %s: %s",
		trackID, isrc, humanize.Bytes(uint64(len(data))))

	return &DownloadResult{
		TrackID: trackID,
		Track:   track,
		Data:    data,
	}, nil
}

// resolveTrackID maps an ISRC to a track ID via the public API, consulting
// the cache first.
func (c *ClientImpl) resolveTrackID(ctx context.Context, isrc string) (int64, error) {
	if trackID, isFound := c.resolvedIDs.Get(isrc); isFound {
		logger.Debugf(ctx, "Resolved ISRC %s from cache: %d", isrc, trackID)

		return trackID, nil
	}

	if err := c.ensureSession(ctx); err != nil {
		return 0, err
	}

	route, err := url.JoinPath(c.cfg.APIBaseURL, isrcLookupURI, "isrc:"+isrc)
	if err != nil {
		return 0, fmt.Errorf("failed to build ISRC lookup URL: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, route, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create ISRC lookup request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return 0, fmt.Errorf("ISRC lookup request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %d from ISRC lookup",
			ErrUnexpectedAPIStatus, response.StatusCode)
	}

	var lookup isrcLookupResponse
	if err = json.NewDecoder(response.Body).Decode(&lookup); err != nil {
		return 0, fmt.Errorf("failed to decode ISRC lookup response: %w", err)
	}

	// The API reports unknown ISRCs with an "error" object in a 200 response.
	if lookup.Error != nil {
		return 0, fmt.Errorf("%w: no track with ISRC %q", ErrTrackNotFound, isrc)
	}

	c.resolvedIDs.Add(isrc, lookup.ID)

	return lookup.ID, nil
}

// getTrackData fetches track data from the gateway. The response carries the
// one-shot track token consumed by the URL negotiation, so the result is
// never cached.
func (c *ClientImpl) getTrackData(ctx context.Context, trackID int64) (*TrackData, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	apiToken, _, sessionID := c.session.tokens()
	payload := map[string]int64{"sng_id": trackID}

	response, err := c.postGW(ctx, gwMethodGetTrackData, apiToken, sessionID, payload)
	if err != nil {
		return nil, err
	}

	if response.Results == nil {
		return nil, fmt.Errorf("%w: no track with ID %d", ErrTrackNotFound, trackID)
	}

	var track TrackData
	if err = json.Unmarshal(response.Results, &track); err != nil {
		return nil, fmt.Errorf("failed to decode track data: %w", err)
	}

	return &track, nil
}

// negotiateTrackURL exchanges a track token for a signed CDN URL.
func (c *ClientImpl) negotiateTrackURL(ctx context.Context, trackToken string) (string, error) {
	if err := c.ensureSession(ctx); err != nil {
		return "", err
	}

	_, licenseToken, _ := c.session.tokens()

	body, err := json.Marshal(urlRequest{
		LicenseToken: licenseToken,
		Media: []urlRequestMedia{
			{
				Type:    mediaTypeFull,
				Formats: []urlRequestFormat{{Cipher: trackCipher, Format: trackFormat}},
			},
		},
		TrackTokens: []string{trackToken},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode URL negotiation request: %w", err)
	}

	route, err := url.JoinPath(c.cfg.MediaBaseURL, mediaURLURI)
	if err != nil {
		return "", fmt.Errorf("failed to build URL negotiation route: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, route, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create URL negotiation request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("URL negotiation request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d from URL negotiation",
			ErrUnexpectedAPIStatus, response.StatusCode)
	}

	var media mediaResponse
	if err = json.NewDecoder(response.Body).Decode(&media); err != nil {
		return "", fmt.Errorf("failed to decode URL negotiation response: %w", err)
	}

	if len(media.Data) == 0 {
		return "", fmt.Errorf("%w: empty media response", ErrNoTrackURL)
	}

	entry := media.Data[0]
	if entry.Errors != nil {
		return "", fmt.Errorf("%w: %s", ErrNoTrackURL, string(entry.Errors))
	}

	if len(entry.Media) == 0 || len(entry.Media[0].Sources) == 0 {
		return "", fmt.Errorf("%w: no sources in media response", ErrNoTrackURL)
	}

	return entry.Media[0].Sources[0].URL, nil
}

// downloadTrackPayload streams the encrypted payload from the signed URL and
// decrypts it on the fly.
func (c *ClientImpl) downloadTrackPayload(
	ctx context.Context,
	trackURL string,
	trackID int64,
) ([]byte, error) {
	key, err := deriveTrackKey(trackID, c.cfg.MasterKey)
	if err != nil {
		return nil, err
	}

	decrypter, err := newTrackDecrypter(key)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create payload request: %w", err)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMediaDownload, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrMediaDownload, response.StatusCode)
	}

	var decrypted bytes.Buffer
	if _, err = decryptStream(&decrypted, response.Body, decrypter); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMediaDownload, err)
	}

	return decrypted.Bytes(), nil
}
