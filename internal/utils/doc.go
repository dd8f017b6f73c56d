// Package utils provides small shared helpers: filename sanitization for
// cross-platform output paths, content-type inspection for transport logging,
// file and slice utilities used across the application.
package utils
