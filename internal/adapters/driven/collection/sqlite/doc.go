// Package sqlite provides a SQLite-backed collection registry. Field
// schemas and item entries are stored as JSON blobs; items and
// bookkeeping live in their own tables so reconciliation only touches
// the rows it changes.
package sqlite
