package http

import (
	"crypto/tls"
	"net/http"
)

// NewRelaxedTLSTransport returns an HTTP transport whose TLS configuration
// accepts the legacy cipher suites and the TLS 1.0 floor that the backend's
// certificate chain still requires (the OpenSSL "DEFAULT@SECLEVEL=1"
// equivalent). Certificate verification itself stays fully enabled; only the
// cipher/version floor is lowered, and only when the operator opts in via
// the relaxed_tls configuration setting.
func NewRelaxedTLSTransport() *http.Transport {
	transport, ok := http.DefaultTransport.(*http.Transport)
	if ok {
		transport = transport.Clone()
	} else {
		transport = &http.Transport{}
	}

	suites := make([]uint16, 0, len(tls.CipherSuites())+len(tls.InsecureCipherSuites()))
	for _, suite := range tls.CipherSuites() {
		suites = append(suites, suite.ID)
	}

	for _, suite := range tls.InsecureCipherSuites() {
		suites = append(suites, suite.ID)
	}

	transport.TLSClientConfig = &tls.Config{
		MinVersion:   tls.VersionTLS10, //nolint:gosec // Required for the backend's CDN chain, opt-in via config.
		CipherSuites: suites,
	}

	return transport
}
