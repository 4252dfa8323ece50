package schedule

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Day is a weekday ordinal, Monday=1 .. Sunday=7.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (d Day) Valid() bool { return d >= Monday && d <= Sunday }

func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d-1]
}

// Next returns the following day, with Sunday wrapping to Monday.
func (d Day) Next() Day {
	if d == Sunday {
		return Monday
	}
	return d + 1
}

// Prev returns the preceding day, with Monday wrapping to Sunday.
func (d Day) Prev() Day {
	if d == Monday {
		return Sunday
	}
	return d - 1
}

// DayOf returns the ordinal of t's weekday.
func DayOf(t time.Time) Day {
	// time.Weekday has Sunday=0; shift to Monday=1..Sunday=7.
	return Day((int(t.Weekday())+6)%7 + 1)
}

// DaySet is a set of weekday ordinals, stored as a bitmask.
// The zero value is the empty set.
type DaySet uint8

const (
	Weekdays = DaySet(1<<Monday | 1<<Tuesday | 1<<Wednesday | 1<<Thursday | 1<<Friday)
	Weekends = DaySet(1<<Saturday | 1<<Sunday)
	EveryDay = Weekdays | Weekends
)

func (s DaySet) Has(d Day) bool { return d.Valid() && s&(1<<d) != 0 }

func (s DaySet) With(d Day) DaySet {
	if !d.Valid() {
		return s
	}
	return s | 1<<d
}

func (s DaySet) Empty() bool { return s&EveryDay == 0 }

// Days returns the members in ascending order.
func (s DaySet) Days() []Day {
	out := make([]Day, 0, 7)
	for d := Monday; d <= Sunday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Shifted returns the set with every member advanced by one day (Sunday
// wrapping to Monday). Used for the deactivation side of midnight-wrapping
// windows, which fires on the following calendar day.
func (s DaySet) Shifted() DaySet {
	var out DaySet
	for d := Monday; d <= Sunday; d++ {
		if s.Has(d) {
			out = out.With(d.Next())
		}
	}
	return out
}

// Summary renders a human-readable description of the set.
func (s DaySet) Summary() string {
	switch s & EveryDay {
	case EveryDay:
		return "Every day"
	case Weekdays:
		return "Weekdays"
	case Weekends:
		return "Weekends"
	}
	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

func (s DaySet) MarshalJSON() ([]byte, error) {
	days := s.Days()
	ints := make([]int, len(days))
	for i, d := range days {
		ints[i] = int(d)
	}
	return json.Marshal(ints)
}

func (s *DaySet) UnmarshalJSON(b []byte) error {
	var ints []int
	if err := json.Unmarshal(b, &ints); err != nil {
		return err
	}
	var out DaySet
	for _, n := range ints {
		d := Day(n)
		if !d.Valid() {
			return fmt.Errorf("%w: day %d out of range 1-7", ErrInvalidDays, n)
		}
		out = out.With(d)
	}
	*s = out
	return nil
}

// ParseDays parses a user-supplied day specification.
//
// Accepted forms:
//   - "all" / "daily" (or an empty string): every day
//   - "weekdays", "weekends"
//   - comma- or space-separated day names ("mon,wed,friday") or ordinals ("1 3 5")
//
// Unrecognized tokens are an error rather than being dropped; a typo in a
// blocking window should not silently widen or narrow it.
func ParseDays(spec string) (DaySet, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	switch s {
	case "", "all", "daily":
		return EveryDay, nil
	case "weekdays":
		return Weekdays, nil
	case "weekends":
		return Weekends, nil
	}

	var out DaySet
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
		d, err := parseDayToken(tok)
		if err != nil {
			return 0, err
		}
		out = out.With(d)
	}
	if out.Empty() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDays, spec)
	}
	return out, nil
}

func parseDayToken(tok string) (Day, error) {
	if len(tok) == 1 && tok[0] >= '1' && tok[0] <= '7' {
		return Day(tok[0] - '0'), nil
	}
	if len(tok) >= 3 {
		for d := Monday; d <= Sunday; d++ {
			name := strings.ToLower(d.String())
			full := strings.ToLower(longDayNames[d-1])
			if tok == name || tok == full {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unrecognized day %q", ErrInvalidDays, tok)
}

var longDayNames = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
