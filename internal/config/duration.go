package config

import (
	"fmt"
	"strings"
	"time"
)

// Duration fields in the config file are Go duration strings ("30s", "2m").
// Empty means unset.

func ParseDurationField(field, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	switch {
	case err != nil:
		return 0, fmt.Errorf("%s: %q is not a duration: %w", field, raw, err)
	case d < 0:
		return 0, fmt.Errorf("%s: negative duration %q", field, raw)
	}
	return d, nil
}

// ParseDurationOrDefault substitutes def for an unset field.
func ParseDurationOrDefault(field, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(field, raw)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return def, nil
	}
	return d, nil
}
