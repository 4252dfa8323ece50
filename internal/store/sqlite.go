//go:build sqlite
// +build sqlite

package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"blocksched/internal/schedule"
	logx "blocksched/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteBackend struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Backend, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteBackend{db: db, log: log}

	// Basic pragmas.
	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteBackend) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteBackend) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteBackend) Load() ([]schedule.Schedule, error) {
	rows, err := s.db.Query(
		`SELECT name, start_time, end_time, devices, days, enabled, created_at, updated_at
		 FROM schedules ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []schedule.Schedule{}
	for rows.Next() {
		var (
			sc                   schedule.Schedule
			start, end           string
			devices, days        string
			enabled              int
			createdAt, updatedAt string
		)
		if err := rows.Scan(&sc.Name, &start, &end, &devices, &days, &enabled, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		if sc.Start, err = schedule.ParseClock(start); err != nil {
			return nil, fmt.Errorf("schedule %q: %w", sc.Name, err)
		}
		if sc.End, err = schedule.ParseClock(end); err != nil {
			return nil, fmt.Errorf("schedule %q: %w", sc.Name, err)
		}
		if err := json.Unmarshal([]byte(devices), &sc.Devices); err != nil {
			return nil, fmt.Errorf("schedule %q devices: %w", sc.Name, err)
		}
		if err := sc.Days.UnmarshalJSON([]byte(days)); err != nil {
			return nil, fmt.Errorf("schedule %q days: %w", sc.Name, err)
		}
		sc.Enabled = enabled != 0
		if sc.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("schedule %q created_at: %w", sc.Name, err)
		}
		if sc.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
			return nil, fmt.Errorf("schedule %q updated_at: %w", sc.Name, err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *sqliteBackend) Save(schedules []schedule.Schedule) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM schedules`); err != nil {
		return err
	}
	for _, sc := range schedules {
		devices := sc.Devices
		if devices == nil {
			devices = []string{}
		}
		devJSON, err := json.Marshal(devices)
		if err != nil {
			return err
		}
		daysJSON, err := sc.Days.MarshalJSON()
		if err != nil {
			return err
		}
		enabled := 0
		if sc.Enabled {
			enabled = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO schedules(name, start_time, end_time, devices, days, enabled, created_at, updated_at)
			 VALUES(?,?,?,?,?,?,?,?)`,
			sc.Name, sc.Start.String(), sc.End.String(), string(devJSON), string(daysJSON),
			enabled, sc.CreatedAt.Format(time.RFC3339), sc.UpdatedAt.Format(time.RFC3339),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
