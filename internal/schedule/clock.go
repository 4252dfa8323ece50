package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// Minute is a wall-clock time of day in minutes since midnight (0..1439).
type Minute int

const minutesPerDay = 24 * 60

// ParseClock parses a zero-padded 24-hour "HH:MM" string.
func ParseClock(s string) (Minute, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q (want HH:MM)", ErrInvalidTimeFormat, s)
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q (want HH:MM)", ErrInvalidTimeFormat, s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q (hour 00-23, minute 00-59)", ErrInvalidTimeFormat, s)
	}
	return Minute(h*60 + m), nil
}

// MinuteOf returns the minute-of-day of t.
func MinuteOf(t time.Time) Minute {
	return Minute(t.Hour()*60 + t.Minute())
}

func (m Minute) Valid() bool { return m >= 0 && m < minutesPerDay }

func (m Minute) Hour() int { return int(m) / 60 }
func (m Minute) Min() int  { return int(m) % 60 }

func (m Minute) String() string {
	return fmt.Sprintf("%02d:%02d", m.Hour(), m.Min())
}

func (m Minute) MarshalJSON() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidTimeFormat, int(m))
	}
	return json.Marshal(m.String())
}

func (m *Minute) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseClock(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
