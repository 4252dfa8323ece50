package config

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	logx "blocksched/pkg/logx"
)

// Manager loads the config file and, for watch mode, republishes it when the
// file changes on disk.
type Manager struct {
	path string

	mu  sync.RWMutex
	cfg *Config

	log logx.Logger

	// lastHash tracks the last committed content so editor-induced duplicate
	// write events don't trigger redundant reloads.
	lastHash uint64
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

func (m *Manager) SetLogger(log logx.Logger) { m.log = log }

// Parse reads and strictly decodes the config file. Unknown fields and
// trailing content are errors in both the YAML and JSON forms.
func (m *Manager) Parse() (*Config, error) {
	b, err := os.ReadFile(m.path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := decodeStrict(m.path, b, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load parses and commits the config. A missing file is not an error: the
// tool runs with built-in defaults so `schedule create` works out of the box.
func (m *Manager) Load() (*Config, error) {
	cfg, err := m.Parse()
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m.commit(cfg)
	return cfg, nil
}

func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

func (m *Manager) commit(cfg *Config) {
	m.mu.Lock()
	m.cfg = cfg
	m.lastHash = hashConfig(cfg)
	m.mu.Unlock()
}

func hashConfig(cfg *Config) uint64 {
	if cfg == nil {
		return 0
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return 0
	}
	return hashBytes(b)
}

// hashBytes is FNV-1a; collisions only cost a redundant reload.
func hashBytes(b []byte) uint64 {
	var h uint64 = 14695981039346656037
	for _, c := range b {
		h ^= uint64(c)
		h *= 1099511628211
	}
	return h
}

// Watch blocks until ctx is done, invoking onChange with each new valid
// config committed after a file change. Invalid or unchanged content is
// logged and skipped. A broken watcher is recreated with backoff.
func (m *Manager) Watch(ctx context.Context, onChange func(*Config)) error {
	dir := filepath.Dir(m.path)
	file := filepath.Base(m.path)

	const (
		restartBackoffBase = 250 * time.Millisecond
		restartBackoffMax  = 5 * time.Second
	)
	backoff := restartBackoffBase

	// debounce to avoid reading partial writes
	var (
		timerMu sync.Mutex
		timer   *time.Timer
	)
	debounce := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(250*time.Millisecond, func() {
			cfg, err := m.Parse()
			if err != nil || cfg == nil {
				m.log.Warn("config parse failed", logx.String("path", m.path), logx.Err(err))
				return
			}
			if err := cfg.Validate(); err != nil {
				m.log.Warn("config rejected", logx.String("path", m.path), logx.Err(err))
				return
			}

			h := hashConfig(cfg)
			m.mu.RLock()
			unchanged := h != 0 && h == m.lastHash
			m.mu.RUnlock()
			if unchanged {
				m.log.Debug("config unchanged; skipping reload", logx.String("path", m.path))
				return
			}

			m.commit(cfg)
			if onChange != nil {
				onChange(cfg)
			}
			m.log.Debug("config reloaded", logx.String("path", m.path))
		})
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		w, err := fsnotify.NewWatcher()
		if err == nil {
			err = w.Add(dir)
			if err != nil {
				_ = w.Close()
			}
		}
		if err != nil {
			m.log.Warn("config watch init failed", logx.Err(err), logx.String("dir", dir))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			if backoff < restartBackoffMax {
				backoff *= 2
			}
			continue
		}

		// success; reset backoff so transient issues don't cause long restart delays
		backoff = restartBackoffBase
		m.log.Debug("config watcher started", logx.String("dir", dir), logx.String("file", file))

		broken := false
		for !broken {
			select {
			case <-ctx.Done():
				_ = w.Close()
				return nil
			case ev, ok := <-w.Events:
				if !ok {
					broken = true
					break
				}
				// Compare by basename; editors rename/recreate on save.
				if strings.EqualFold(filepath.Base(ev.Name), file) {
					if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) != 0 {
						debounce()
					}
				}
			case werr, ok := <-w.Errors:
				if !ok {
					broken = true
					break
				}
				if werr == nil {
					continue
				}
				m.log.Warn("config watch error", logx.Err(werr), logx.String("dir", dir))
				if strings.Contains(strings.ToLower(werr.Error()), "closed") {
					broken = true
				}
			}
		}

		_ = w.Close()
		if ctx.Err() != nil {
			return nil
		}
		m.log.Warn("config watcher stopped; restarting",
			logx.String("dir", dir), logx.Duration("backoff", backoff))
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		if backoff < restartBackoffMax {
			backoff *= 2
		}
	}
}
