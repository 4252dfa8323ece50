package schedule

import "time"

// IsActive reports whether the window is open at now.
//
// Wrap semantics: a window that started on day D stays open through the
// early-morning portion of D+1 even when D+1 itself is not in the day set,
// provided D is.
func IsActive(s Schedule, now time.Time) bool {
	if s.Start == s.End {
		// Zero-length windows are rejected at validation; never active.
		return false
	}
	cur := MinuteOf(now)
	today := DayOf(now)

	if !s.Wraps() {
		return s.Days.Has(today) && cur >= s.Start && cur < s.End
	}
	if s.Days.Has(today) && cur >= s.Start {
		return true
	}
	return s.Days.Has(today.Prev()) && cur < s.End
}

// NextTransition returns the instant of the window's next state change,
// always strictly after now and never more than 7 days ahead (the day set is
// non-empty).
//
// While active it is the next close; while inactive it is the next open.
func NextTransition(s Schedule, now time.Time) time.Time {
	cur := MinuteOf(now)

	if IsActive(s, now) {
		if s.Wraps() && cur >= s.Start {
			// Open portion before midnight; closes tomorrow.
			return at(now, 1, s.End)
		}
		return at(now, 0, s.End)
	}

	today := DayOf(now)
	for off := 0; off <= 7; off++ {
		d := today
		for i := 0; i < off; i++ {
			d = d.Next()
		}
		if !s.Days.Has(d) {
			continue
		}
		start := at(now, off, s.Start)
		if start.After(now) {
			return start
		}
	}
	// Unreachable for valid schedules; keep the contract total.
	return at(now, 7, s.Start)
}

// at returns the wall-clock instant of m on now's date shifted by days.
func at(now time.Time, days int, m Minute) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()+days, m.Hour(), m.Min(), 0, 0, now.Location())
}
