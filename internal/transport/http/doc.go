// Package http provides custom HTTP transport utilities,
// including request/response logging, User-Agent header injection,
// and a TLS configuration relaxed enough to interoperate with the
// backend's certificate chain. It is designed to enhance HTTP client
// functionality with debugging capabilities and request customization.
package http
