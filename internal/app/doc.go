// Package app provides the main application logic for bulk downloads by ISRC.
// It wires the Deezer client, the queue store, and the batch service together,
// and exposes one entry point per CLI command.
package app
