package http

import (
	"net/http"

	"isrc-grabber/internal/utils"
)

const userAgentHeader = "User-Agent"

// UserAgentInjector is an http.RoundTripper decorator that sets the
// User-Agent header on outgoing requests. The backend rejects requests
// carrying Go's default agent string.
type UserAgentInjector struct {
	next     http.RoundTripper
	provider utils.UserAgentProvider
}

// NewUserAgentInjector wraps next so every request without an explicit
// User-Agent gets one from the provider.
func NewUserAgentInjector(next http.RoundTripper, provider utils.UserAgentProvider) http.RoundTripper {
	return &UserAgentInjector{
		next:     next,
		provider: provider,
	}
}

// RoundTrip implements the http.RoundTripper interface. A User-Agent set by
// the caller wins over the injected one.
func (t *UserAgentInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(userAgentHeader) == "" {
		req.Header.Set(userAgentHeader, t.provider.GetUserAgent())
	}

	return t.next.RoundTrip(req)
}
