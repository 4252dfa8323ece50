package schedule

import (
	"fmt"
	"regexp"
	"time"
)

// Schedule is a named recurring weekly blocking window.
//
// An empty Devices slice means the window applies network-wide.
type Schedule struct {
	Name      string    `json:"name"`
	Start     Minute    `json:"start_time"`
	End       Minute    `json:"end_time"`
	Devices   []string  `json:"devices"`
	Days      DaySet    `json:"days"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidName reports whether name is usable as a schedule key.
func ValidName(name string) bool { return nameRe.MatchString(name) }

// Validate checks the record invariants. It does not consult the store, so
// name uniqueness is enforced elsewhere.
func (s *Schedule) Validate() error {
	if !ValidName(s.Name) {
		return fmt.Errorf("%w: %q (letters, digits, '_' and '-' only)", ErrInvalidName, s.Name)
	}
	if !s.Start.Valid() {
		return fmt.Errorf("%w: start %d", ErrInvalidTimeFormat, int(s.Start))
	}
	if !s.End.Valid() {
		return fmt.Errorf("%w: end %d", ErrInvalidTimeFormat, int(s.End))
	}
	if s.Start == s.End {
		return fmt.Errorf("%w: start and end are both %s (zero-length window)", ErrInvalidTimeFormat, s.Start)
	}
	if s.Days.Empty() {
		return fmt.Errorf("%w: no days selected", ErrInvalidDays)
	}
	return nil
}

// Wraps reports whether the window spans midnight into the next calendar day.
func (s *Schedule) Wraps() bool { return s.Start > s.End }

// DeviceSummary renders the device scope for display.
func (s *Schedule) DeviceSummary() string {
	if len(s.Devices) == 0 {
		return "All devices"
	}
	return fmt.Sprintf("%d device(s)", len(s.Devices))
}
