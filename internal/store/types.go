package store

import (
	"time"

	"blocksched/internal/schedule"
)

// Config configures the schedule store.
//
// Driver values:
//   - "file": JSON document (default)
//   - "sqlite": SQLite database file (optional build tag)
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Backend is the raw persistence API beneath Store.
//
// Load returns schedules in insertion order. A missing or unreadable backing
// file is treated as an empty collection, never as a fatal error; the tool
// must stay usable after corruption.
//
// Save replaces the full collection and must be atomic from the caller's
// perspective, so a crash mid-write never leaves truncated state behind.
type Backend interface {
	Load() ([]schedule.Schedule, error)
	Save([]schedule.Schedule) error
	Close() error
}
