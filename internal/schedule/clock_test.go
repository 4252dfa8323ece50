package schedule

import "testing"

func TestParseClock(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want Minute
	}{
		{raw: "00:00", want: 0},
		{raw: "09:05", want: 9*60 + 5},
		{raw: "22:00", want: 22 * 60},
		{raw: "23:59", want: 23*60 + 59},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.raw)
		if err != nil {
			t.Fatalf("ParseClock(%q) error: %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParseClock(%q) = %d, want %d", tt.raw, got, tt.want)
		}
		if got.String() != tt.raw {
			t.Fatalf("String() = %q, want %q", got.String(), tt.raw)
		}
	}
}

func TestParseClockInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "24:00", "12:60", "9:00", "12-30", "ab:cd", "12:345", "09:3x", "1 :30"} {
		if _, err := ParseClock(raw); err == nil {
			t.Fatalf("ParseClock(%q): expected error", raw)
		}
	}
}

func TestMinuteJSONRoundTrip(t *testing.T) {
	t.Parallel()
	m := Minute(7*60 + 30)
	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	if string(b) != `"07:30"` {
		t.Fatalf("MarshalJSON = %s, want \"07:30\"", b)
	}
	var back Minute
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("UnmarshalJSON error: %v", err)
	}
	if back != m {
		t.Fatalf("round trip = %d, want %d", back, m)
	}
}
