// Package batch orchestrates mass downloads over a persistent work queue.
// ISRCs are imported into a SQLite-backed queue, then processed in batches:
// each item is downloaded through the Deezer client, saved under its own
// directory as a tagged audio file plus a lyrics JSON document, and marked
// with a terminal status describing the outcome. The queue survives restarts,
// so an interrupted run picks up where it left off.
package batch
