// Package store persists the schedule collection.
//
// It currently supports:
//   - "file": a single JSON document, replaced atomically on every save
//   - "sqlite": SQLite database file (optional build tag)
package store
