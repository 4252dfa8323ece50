package store

import (
	"errors"
	"strings"

	logx "blocksched/pkg/logx"
)

// Open initializes the configured backend and wraps it in a Store.
func Open(cfg Config, log logx.Logger) (*Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	var (
		b   Backend
		err error
	)
	switch driver {
	case "", "file":
		b, err = openFile(cfg, log)
	case "sqlite", "sqlite3":
		b, err = openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown store driver: " + driver)
	}
	if err != nil {
		return nil, err
	}
	return &Store{backend: b}, nil
}
