package schedule

import (
	"testing"
	"time"
)

// clock builds an instant on a fixed reference week.
// 2024-01-01 is a Monday.
func clock(day Day, hhmm string) time.Time {
	m, err := ParseClock(hhmm)
	if err != nil {
		panic(err)
	}
	return time.Date(2024, 1, 1+int(day-Monday), m.Hour(), m.Min(), 0, 0, time.Local)
}

func mustDays(t *testing.T, spec string) DaySet {
	t.Helper()
	s, err := ParseDays(spec)
	if err != nil {
		t.Fatalf("ParseDays(%q): %v", spec, err)
	}
	return s
}

func TestIsActiveNonWrapping(t *testing.T) {
	t.Parallel()
	s := Schedule{
		Name:    "Work_Hours",
		Start:   9 * 60,
		End:     17 * 60,
		Days:    Weekdays,
		Enabled: true,
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "inside window on weekday", now: clock(Tuesday, "10:00"), want: true},
		{name: "start inclusive", now: clock(Tuesday, "09:00"), want: true},
		{name: "end exclusive", now: clock(Tuesday, "17:00"), want: false},
		{name: "before window", now: clock(Tuesday, "08:59"), want: false},
		{name: "saturday never matches", now: clock(Saturday, "10:00"), want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := IsActive(s, tt.now); got != tt.want {
				t.Fatalf("IsActive at %v = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestIsActiveWrapping(t *testing.T) {
	t.Parallel()
	s := Schedule{
		Name:    "Night_Block",
		Start:   22 * 60,
		End:     6 * 60,
		Days:    EveryDay,
		Enabled: true,
	}

	tests := []struct {
		now  time.Time
		want bool
	}{
		{now: clock(Wednesday, "23:00"), want: true},
		{now: clock(Wednesday, "05:59"), want: true},
		{now: clock(Wednesday, "06:00"), want: false},
		{now: clock(Wednesday, "21:59"), want: false},
		{now: clock(Wednesday, "22:00"), want: true},
	}
	for _, tt := range tests {
		if got := IsActive(s, tt.now); got != tt.want {
			t.Fatalf("IsActive at %v = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestIsActiveWrapSpillsIntoUnlistedDay(t *testing.T) {
	t.Parallel()
	// Monday-only wrapping window: still open early Tuesday morning.
	s := Schedule{
		Name:  "Mon_Night",
		Start: 22 * 60,
		End:   6 * 60,
		Days:  DaySet(0).With(Monday),
	}

	if !IsActive(s, clock(Tuesday, "03:00")) {
		t.Fatal("window started Monday should still be open Tuesday 03:00")
	}
	if IsActive(s, clock(Tuesday, "23:00")) {
		t.Fatal("Tuesday is not in the day set; window must not reopen")
	}
	if IsActive(s, clock(Wednesday, "03:00")) {
		t.Fatal("no Tuesday start to spill into Wednesday")
	}
}

func TestNextTransitionWhileActive(t *testing.T) {
	t.Parallel()
	night := Schedule{Name: "Night_Block", Start: 22 * 60, End: 6 * 60, Days: EveryDay}
	work := Schedule{Name: "Work_Hours", Start: 9 * 60, End: 17 * 60, Days: Weekdays}

	tests := []struct {
		name string
		s    Schedule
		now  time.Time
		want time.Time
	}{
		{name: "wrap before midnight closes tomorrow", s: night, now: clock(Monday, "23:30"), want: clock(Tuesday, "06:00")},
		{name: "wrap after midnight closes today", s: night, now: clock(Tuesday, "05:00"), want: clock(Tuesday, "06:00")},
		{name: "plain window closes today", s: work, now: clock(Friday, "12:00"), want: clock(Friday, "17:00")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := NextTransition(tt.s, tt.now)
			if !got.Equal(tt.want) {
				t.Fatalf("NextTransition = %v, want %v", got, tt.want)
			}
			if !got.After(tt.now) {
				t.Fatalf("NextTransition %v is not strictly after %v", got, tt.now)
			}
		})
	}
}

func TestNextTransitionWhileInactive(t *testing.T) {
	t.Parallel()
	night := Schedule{Name: "Night_Block", Start: 22 * 60, End: 7 * 60, Days: EveryDay}
	work := Schedule{Name: "Work_Hours", Start: 9 * 60, End: 17 * 60, Days: Weekdays}

	tests := []struct {
		name string
		s    Schedule
		now  time.Time
		want time.Time
	}{
		{name: "later today", s: night, now: clock(Monday, "12:00"), want: clock(Monday, "22:00")},
		{name: "after close scans to next weekday", s: work, now: clock(Friday, "18:00"), want: clock(Friday+3, "09:00")},
		{name: "weekend skipped entirely", s: work, now: clock(Saturday, "10:00"), want: clock(Saturday+2, "09:00")},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := NextTransition(tt.s, tt.now)
			if !got.Equal(tt.want) {
				t.Fatalf("NextTransition = %v, want %v", got, tt.want)
			}
			if !got.After(tt.now) {
				t.Fatalf("NextTransition %v is not strictly after %v", got, tt.now)
			}
			if got.Sub(tt.now) > 7*24*time.Hour {
				t.Fatalf("NextTransition %v is more than 7 days ahead of %v", got, tt.now)
			}
		})
	}
}

func TestNextTransitionSingleDayBoundsAtWeek(t *testing.T) {
	t.Parallel()
	s := Schedule{Name: "Mon_Only", Start: 9 * 60, End: 10 * 60, Days: DaySet(0).With(Monday)}

	// Just after Monday's window closed: next open is the following Monday.
	now := clock(Monday, "10:00")
	got := NextTransition(s, now)
	want := clock(Monday, "09:00").AddDate(0, 0, 7)
	if !got.Equal(want) {
		t.Fatalf("NextTransition = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	ok := Schedule{Name: "Night_Block", Start: 22 * 60, End: 6 * 60, Days: EveryDay}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}

	tests := []struct {
		name string
		mut  func(*Schedule)
	}{
		{name: "bad name", mut: func(s *Schedule) { s.Name = "night block!" }},
		{name: "empty name", mut: func(s *Schedule) { s.Name = "" }},
		{name: "zero-length window", mut: func(s *Schedule) { s.End = s.Start }},
		{name: "no days", mut: func(s *Schedule) { s.Days = 0 }},
		{name: "start out of range", mut: func(s *Schedule) { s.Start = 1440 }},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			s := ok
			tt.mut(&s)
			if err := s.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
