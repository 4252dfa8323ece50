// Package service orchestrates the schedule operations: store mutation,
// crontab synchronization, and immediate actuation.
package service

import (
	"context"
	"fmt"
	"time"

	"blocksched/internal/blocker"
	"blocksched/internal/cronsync"
	"blocksched/internal/planner"
	"blocksched/internal/schedule"
	"blocksched/internal/store"
	logx "blocksched/pkg/logx"
)

type Service struct {
	store   *store.Store
	sync    *cronsync.Synchronizer
	adapter blocker.Adapter
	log     logx.Logger

	// now is swappable for tests.
	now func() time.Time
}

func New(st *store.Store, sync *cronsync.Synchronizer, adapter blocker.Adapter, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{store: st, sync: sync, adapter: adapter, log: log, now: time.Now}
}

// CreateRequest carries the raw user input for a new schedule; parsing and
// validation happen inside Create so every entry point shares one rule set.
type CreateRequest struct {
	Name    string
	Start   string // "HH:MM"
	End     string // "HH:MM"
	Days    string // day spec, empty means every day
	Devices []string
	Enabled bool
}

// Create validates, persists, scopes devices on the blocking group, and
// re-synchronizes the crontab.
func (s *Service) Create(ctx context.Context, req CreateRequest) (schedule.Schedule, error) {
	start, err := schedule.ParseClock(req.Start)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("start: %w", err)
	}
	end, err := schedule.ParseClock(req.End)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("end: %w", err)
	}
	days, err := schedule.ParseDays(req.Days)
	if err != nil {
		return schedule.Schedule{}, err
	}
	devices := req.Devices
	if devices == nil {
		devices = []string{}
	}

	now := s.now().UTC().Truncate(time.Second)
	sc := schedule.Schedule{
		Name:      req.Name,
		Start:     start,
		End:       end,
		Devices:   devices,
		Days:      days,
		Enabled:   req.Enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := sc.Validate(); err != nil {
		return schedule.Schedule{}, err
	}

	if err := s.store.Add(sc); err != nil {
		return schedule.Schedule{}, err
	}
	s.log.Info("schedule created",
		logx.String("name", sc.Name),
		logx.String("window", sc.Start.String()+"-"+sc.End.String()),
		logx.String("days", sc.Days.Summary()))

	// Device scoping and actuation are declarative intent already persisted;
	// failures are logged and retried on the next sync pass, never rolled back.
	if err := s.adapter.AssociateDevices(ctx, sc.Name, sc.Devices); err != nil {
		s.log.Warn("device association failed", logx.String("name", sc.Name), logx.Err(err))
	}
	s.applyCurrentState(ctx, sc)
	if err := s.resync(); err != nil {
		return sc, err
	}
	return sc, nil
}

// Enable turns a schedule back on. The bool is false when it was already
// enabled (a no-op, not an error).
func (s *Service) Enable(ctx context.Context, name string) (bool, error) {
	cur, err := s.store.FindByName(name)
	if err != nil {
		return false, err
	}
	if cur.Enabled {
		return false, nil
	}
	sc, err := s.store.Update(name, func(sc *schedule.Schedule) { sc.Enabled = true })
	if err != nil {
		return false, err
	}
	s.log.Info("schedule enabled", logx.String("name", name))
	s.applyCurrentState(ctx, sc)
	return true, s.resync()
}

// Disable turns a schedule off and forces its group deactivated immediately;
// it must not stay blocking until the next scheduled transition fires.
func (s *Service) Disable(ctx context.Context, name string) (bool, error) {
	cur, err := s.store.FindByName(name)
	if err != nil {
		return false, err
	}
	if !cur.Enabled {
		return false, nil
	}
	if _, err := s.store.Update(name, func(sc *schedule.Schedule) { sc.Enabled = false }); err != nil {
		return false, err
	}
	s.log.Info("schedule disabled", logx.String("name", name))
	s.forceOff(ctx, name)
	return true, s.resync()
}

// Delete removes the record, retracts its group state, and drops its
// crontab entries.
func (s *Service) Delete(ctx context.Context, name string) error {
	if _, err := s.store.FindByName(name); err != nil {
		return err
	}
	if err := s.store.Remove(name); err != nil {
		return err
	}
	s.log.Info("schedule deleted", logx.String("name", name))
	s.forceOff(ctx, name)
	return s.resync()
}

// Test drives the adapter to the requested state without touching persisted
// records or the crontab. Manual override for verification.
func (s *Service) Test(ctx context.Context, name, action string) error {
	if _, err := s.store.FindByName(name); err != nil {
		return err
	}
	act, err := planner.ParseAction(action)
	if err != nil {
		return fmt.Errorf("%w: %q (use enable or disable)", schedule.ErrInvalidAction, action)
	}

	if act == planner.Activate {
		err = s.adapter.EnableGroup(ctx, name)
	} else {
		err = s.adapter.DisableGroup(ctx, name)
	}
	if err != nil {
		return err
	}
	return s.adapter.Reload(ctx)
}

// List returns all records in store order.
func (s *Service) List() ([]schedule.Schedule, error) {
	return s.store.Load()
}

// Status describes one enabled schedule at a point in time.
type Status struct {
	Schedule       schedule.Schedule
	Active         bool
	NextTransition time.Time
}

// Status reports, for each enabled schedule, whether it is blocking right
// now and when its state changes next.
func (s *Service) Status() ([]Status, error) {
	all, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]Status, 0, len(all))
	for _, sc := range all {
		if !sc.Enabled {
			continue
		}
		out = append(out, Status{
			Schedule:       sc,
			Active:         schedule.IsActive(sc, now),
			NextTransition: schedule.NextTransition(sc, now),
		})
	}
	return out, nil
}

// Run executes one actuation entry: the entry point the installed cron lines
// invoke at their scheduled times.
func (s *Service) Run(ctx context.Context, name, action string) error {
	sc, err := s.store.FindByName(name)
	if err != nil {
		return err
	}
	act, err := planner.ParseAction(action)
	if err != nil {
		return fmt.Errorf("%w: %q", schedule.ErrInvalidAction, action)
	}
	if !sc.Enabled {
		// A stale cron line may fire between disable and the next sync.
		s.log.Warn("ignoring actuation for disabled schedule", logx.String("name", name))
		return nil
	}

	if act == planner.Activate {
		err = s.adapter.EnableGroup(ctx, name)
	} else {
		err = s.adapter.DisableGroup(ctx, name)
	}
	if err != nil {
		return err
	}
	return s.adapter.Reload(ctx)
}

// Resync recomputes the desired entries and rewrites the crontab.
func (s *Service) Resync() error { return s.resync() }

func (s *Service) resync() error {
	all, err := s.store.Load()
	if err != nil {
		return err
	}
	return s.sync.Sync(planner.Plan(all))
}

// applyCurrentState drives the group to what the window calculus says it
// should be right now, so a mutation takes effect without waiting for the
// next timed trigger.
func (s *Service) applyCurrentState(ctx context.Context, sc schedule.Schedule) {
	var err error
	if sc.Enabled && schedule.IsActive(sc, s.now()) {
		err = s.adapter.EnableGroup(ctx, sc.Name)
	} else {
		err = s.adapter.DisableGroup(ctx, sc.Name)
	}
	if err != nil {
		s.log.Warn("actuation failed; will retry on next sync",
			logx.String("name", sc.Name), logx.Err(err))
		return
	}
	if err := s.adapter.Reload(ctx); err != nil {
		s.log.Warn("blocker reload failed", logx.Err(err))
	}
}

// forceOff retracts external group state for a schedule.
func (s *Service) forceOff(ctx context.Context, name string) {
	if err := s.adapter.DisableGroup(ctx, name); err != nil {
		s.log.Warn("failed to deactivate group", logx.String("name", name), logx.Err(err))
		return
	}
	if err := s.adapter.Reload(ctx); err != nil {
		s.log.Warn("blocker reload failed", logx.Err(err))
	}
}
