// Package store persists analysis runs and their per-group statistics in
// SQLite.
//
// The Store manages database connections, schema initialization, and the
// queries the CLI needs to list runs and render their results. The
// database is a local results archive under the configured output
// directory; the schema is applied idempotently on open and its version
// recorded in schema_info.
package store
