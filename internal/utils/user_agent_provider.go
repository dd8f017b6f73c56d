package utils

// UserAgentProvider supplies the User-Agent string for outgoing requests.
type UserAgentProvider interface {
	GetUserAgent() string
}

// SimpleUserAgentProvider returns the same static User-Agent string for
// every request.
type SimpleUserAgentProvider struct {
	userAgent string
}

// NewSimpleUserAgentProvider creates a provider around a fixed string.
func NewSimpleUserAgentProvider(userAgent string) UserAgentProvider {
	return &SimpleUserAgentProvider{userAgent: userAgent}
}

// GetUserAgent returns the configured User-Agent string.
func (p *SimpleUserAgentProvider) GetUserAgent() string {
	return p.userAgent
}
