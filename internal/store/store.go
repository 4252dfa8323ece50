package store

import (
	"fmt"
	"time"

	"blocksched/internal/schedule"
)

// Store layers the record-level operations (find/add/remove/update) over a
// Backend. It is the sole owner of Schedule records: callers get copies and
// mutations go through Update.
//
// Invocations are single-process and command-at-a-time; there is no
// in-process locking beyond what the backend provides.
type Store struct {
	backend Backend
}

func (s *Store) Load() ([]schedule.Schedule, error) { return s.backend.Load() }
func (s *Store) Save(v []schedule.Schedule) error   { return s.backend.Save(v) }
func (s *Store) Close() error                       { return s.backend.Close() }

// FindByName returns the named schedule.
func (s *Store) FindByName(name string) (schedule.Schedule, error) {
	all, err := s.Load()
	if err != nil {
		return schedule.Schedule{}, err
	}
	for _, sc := range all {
		if sc.Name == name {
			return sc, nil
		}
	}
	return schedule.Schedule{}, fmt.Errorf("%w: %q", schedule.ErrNotFound, name)
}

// Add appends a new schedule, preserving insertion order.
func (s *Store) Add(sc schedule.Schedule) error {
	all, err := s.Load()
	if err != nil {
		return err
	}
	for _, existing := range all {
		if existing.Name == sc.Name {
			return fmt.Errorf("%w: %q", schedule.ErrDuplicateName, sc.Name)
		}
	}
	return s.Save(append(all, sc))
}

// Remove deletes the named schedule.
func (s *Store) Remove(name string) error {
	all, err := s.Load()
	if err != nil {
		return err
	}
	for i, sc := range all {
		if sc.Name == name {
			return s.Save(append(all[:i], all[i+1:]...))
		}
	}
	return fmt.Errorf("%w: %q", schedule.ErrNotFound, name)
}

// Update applies mutate to the named schedule in place and bumps UpdatedAt.
// It returns the mutated copy.
func (s *Store) Update(name string, mutate func(*schedule.Schedule)) (schedule.Schedule, error) {
	all, err := s.Load()
	if err != nil {
		return schedule.Schedule{}, err
	}
	for i := range all {
		if all[i].Name != name {
			continue
		}
		mutate(&all[i])
		all[i].UpdatedAt = time.Now().UTC().Truncate(time.Second)
		if err := s.Save(all); err != nil {
			return schedule.Schedule{}, err
		}
		return all[i], nil
	}
	return schedule.Schedule{}, fmt.Errorf("%w: %q", schedule.ErrNotFound, name)
}
