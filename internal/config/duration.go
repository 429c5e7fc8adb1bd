package config

import (
	"fmt"
	"strings"
	"time"
)

// defaultRequestTimeout bounds a single fetch request when the config leaves
// supabase.request_timeout unset.
const defaultRequestTimeout = 30 * time.Second

// ParseDurationField parses a Go duration string from the config, where an
// empty value means "unset" and parses to zero. path names the field in
// error messages.
func ParseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}

// ParseDurationOrDefault is ParseDurationField with an unset value resolving
// to def instead of zero.
func ParseDurationOrDefault(path, raw string, def time.Duration) (time.Duration, error) {
	d, err := ParseDurationField(path, raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return def, nil
	}
	return d, nil
}
