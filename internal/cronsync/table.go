package cronsync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Table abstracts the external job table: list the current entries, replace
// them all. Entries are opaque lines; only the marker comment is interpreted.
type Table interface {
	List() ([]string, error)
	Replace(lines []string) error
}

// OpenTable selects a transport.
//
// Transports:
//   - "crontab" (default): the invoking user's crontab via the crontab binary
//   - "file": a flat file, replaced atomically (containers, tests)
func OpenTable(transport, path string) (Table, error) {
	switch strings.ToLower(strings.TrimSpace(transport)) {
	case "", "crontab":
		return &execTable{}, nil
	case "file":
		if strings.TrimSpace(path) == "" {
			return nil, errors.New("cron.file is required for the file transport")
		}
		return &fileTable{path: path}, nil
	default:
		return nil, fmt.Errorf("unknown cron transport %q", transport)
	}
}

// execTable shells out to crontab(1).
type execTable struct{}

const crontabTimeout = 10 * time.Second

func (t *execTable) List() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), crontabTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "crontab", "-l")
	out, err := cmd.Output()
	if err != nil {
		// "no crontab for <user>" exits non-zero; treat it as an empty table.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return []string{}, nil
		}
		return nil, err
	}
	return splitLines(string(out)), nil
}

func (t *execTable) Replace(lines []string) error {
	// crontab(1) reads the replacement from a file, which keeps the install
	// a single whole-table operation.
	tmp, err := os.CreateTemp("", "blocksched-crontab-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(joinLines(lines)); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), crontabTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, "crontab", tmp.Name())
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("crontab install failed: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// fileTable keeps the job table in a flat file (e.g. /etc/cron.d style or a
// bind-mounted container path). Writes go through tmp-then-rename.
type fileTable struct {
	path string
}

func (t *fileTable) List() ([]string, error) {
	b, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	return splitLines(string(b)), nil
}

func (t *fileTable) Replace(lines []string) error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return err
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(joinLines(lines)), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, t.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
