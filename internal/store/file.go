package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"blocksched/internal/schedule"
	logx "blocksched/pkg/logx"
)

// fileBackend keeps the whole collection in one JSON document.
//
// Saves write to <path>.tmp and rename over the original, so readers either
// see the previous document or the new one, never a partial write.
type fileBackend struct {
	path string
	log  logx.Logger
}

func openFile(cfg Config, log logx.Logger) (Backend, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("store.path is required for file driver")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &fileBackend{path: path, log: log}, nil
}

func (f *fileBackend) Load() ([]schedule.Schedule, error) {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []schedule.Schedule{}, nil
		}
		return nil, err
	}

	var out []schedule.Schedule
	if err := json.Unmarshal(b, &out); err != nil {
		// Corrupt state degrades to "no schedules"; the next save rewrites it.
		f.log.Warn("schedule file unparseable; treating as empty",
			logx.String("path", f.path), logx.Err(err))
		return []schedule.Schedule{}, nil
	}
	return out, nil
}

func (f *fileBackend) Save(schedules []schedule.Schedule) error {
	if schedules == nil {
		schedules = []schedule.Schedule{}
	}
	b, err := json.MarshalIndent(schedules, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (f *fileBackend) Close() error { return nil }
