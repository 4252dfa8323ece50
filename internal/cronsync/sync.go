package cronsync

import (
	"fmt"

	"blocksched/internal/planner"
	logx "blocksched/pkg/logx"
)

// Synchronizer installs the desired actuation entries into a crontab Table.
type Synchronizer struct {
	table    Table
	execPath string
	log      logx.Logger
}

func New(table Table, execPath string, log logx.Logger) *Synchronizer {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Synchronizer{table: table, execPath: execPath, log: log}
}

// Sync replaces every owned line with a fresh render of entries, leaving all
// other lines byte-untouched. The table is swapped whole, not edited in
// place, so an interrupted run never leaves a half-written crontab.
func (s *Synchronizer) Sync(entries []planner.Entry) error {
	current, err := s.table.List()
	if err != nil {
		return fmt.Errorf("read crontab: %w", err)
	}

	next := make([]string, 0, len(current)+len(entries))
	dropped := 0
	for _, line := range current {
		if Owned(line) {
			dropped++
			continue
		}
		next = append(next, line)
	}

	// Render everything before touching the table; a single bad entry aborts
	// the whole pass.
	rendered := make([]string, 0, len(entries))
	for _, e := range entries {
		line, err := Render(e, s.execPath)
		if err != nil {
			return err
		}
		rendered = append(rendered, line)
	}
	next = append(next, rendered...)

	if err := s.table.Replace(next); err != nil {
		return fmt.Errorf("replace crontab: %w", err)
	}
	s.log.Debug("crontab synchronized",
		logx.Int("kept", len(next)-len(rendered)),
		logx.Int("dropped", dropped),
		logx.Int("installed", len(rendered)))
	return nil
}
