package deezer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"isrc-grabber/internal/logger"
)

// session holds the tokens of one anonymous gateway session. Setup is lazy:
// the first operation performs the handshake, later ones reuse the result.
// A failed handshake leaves the session unestablished, so the next operation
// retries from scratch.
type session struct {
	mu           sync.Mutex
	established  bool
	apiToken     string
	licenseToken string
	sessionID    string
}

// ensureSession performs the gateway handshake at most once. Concurrent
// first calls serialize on the mutex and only the winner talks to the
// backend; the rest observe the established session and return immediately.
func (c *ClientImpl) ensureSession(ctx context.Context) error {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()

	if c.session.established {
		return nil
	}

	logger.Debug(ctx, "Establishing gateway session")

	response, err := c.postGW(ctx, gwMethodGetUserData, "", "", struct{}{})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSessionSetup, err)
	}

	if response.Results == nil {
		return fmt.Errorf("%w: response has no results", ErrSessionSetup)
	}

	var data userData
	if err = json.Unmarshal(response.Results, &data); err != nil {
		return fmt.Errorf("%w: malformed session data: %s", ErrSessionSetup, err)
	}

	if data.CheckForm == "" || data.SessionID == "" || data.User.Options.LicenseToken == "" {
		return fmt.Errorf("%w: incomplete session data", ErrSessionSetup)
	}

	c.session.apiToken = data.CheckForm
	c.session.licenseToken = data.User.Options.LicenseToken
	c.session.sessionID = data.SessionID
	c.session.established = true

	logger.Debug(ctx, "Gateway session established")

	return nil
}

// tokens returns the session credentials under the lock.
func (s *session) tokens() (apiToken, licenseToken, sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.apiToken, s.licenseToken, s.sessionID
}

// postGW makes a request to the internal gateway endpoint. The session ID,
// when present, travels as the "sid" cookie. A non-success status is an
// ErrUnexpectedAPIStatus; the handshake wraps it into ErrSessionSetup.
func (c *ClientImpl) postGW(
	ctx context.Context,
	method, apiToken, sessionID string,
	payload any,
) (*gwResponse, error) {
	route, err := buildGWRoute(c.cfg.GWBaseURL, method, apiToken)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, route, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway request: %w", err)
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	if sessionID != "" {
		request.AddCookie(&http.Cookie{Name: "sid", Value: sessionID})
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d from gateway method %s",
			ErrUnexpectedAPIStatus, response.StatusCode, method)
	}

	var decoded gwResponse
	if err = json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return &decoded, nil
}

// buildGWRoute assembles the gateway URL with its constant query parameters.
func buildGWRoute(baseURL, method, apiToken string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse gateway base URL: %w", err)
	}

	parsed = parsed.JoinPath(gwLightURI)

	query := parsed.Query()
	query.Set("method", method)
	query.Set("input", gwInput)
	query.Set("api_version", gwAPIVersion)
	query.Set("api_token", apiToken)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
