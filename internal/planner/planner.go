// Package planner converts enabled schedules into declarative actuation
// entries for the external job runner.
package planner

import (
	"blocksched/internal/schedule"
)

// Action is what an entry does when it fires.
type Action string

const (
	Activate   Action = "activate"
	Deactivate Action = "deactivate"
)

// ParseAction normalizes a user-supplied action token.
func ParseAction(s string) (Action, error) {
	switch s {
	case "activate", "enable", "on":
		return Activate, nil
	case "deactivate", "disable", "off":
		return Deactivate, nil
	}
	return "", schedule.ErrInvalidAction
}

// Entry is a single "at time T on days D perform action A" instruction,
// owned by the schedule that produced it.
type Entry struct {
	Days   schedule.DaySet
	At     schedule.Minute
	Action Action
	Owner  string
}

// Plan emits one activate and one deactivate entry per enabled schedule, in
// input order. Disabled schedules emit nothing.
//
// For a midnight-wrapping window the deactivation fires on the calendar day
// after each configured day, so its day set is the schedule's set shifted
// forward by one.
func Plan(schedules []schedule.Schedule) []Entry {
	entries := make([]Entry, 0, 2*len(schedules))
	for _, s := range schedules {
		if !s.Enabled {
			continue
		}
		offDays := s.Days
		if s.Wraps() {
			offDays = s.Days.Shifted()
		}
		entries = append(entries,
			Entry{Days: s.Days, At: s.Start, Action: Activate, Owner: s.Name},
			Entry{Days: offDays, At: s.End, Action: Deactivate, Owner: s.Name},
		)
	}
	return entries
}
