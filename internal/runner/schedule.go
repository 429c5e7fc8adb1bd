package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule accepts a cron expression ("*/15 * * * *", "@hourly",
// "@every 10m") or a bare Go duration ("10m", "1h30m") and returns a cron
// schedule for trigger computation.
func ParseSchedule(raw string) (cron.Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("schedule required")
	}

	// Bare durations are the common case for this tool; normalize them into
	// the cron parser's @every form.
	if !strings.ContainsAny(s, " \t") && !strings.HasPrefix(s, "@") {
		if d, err := time.ParseDuration(s); err == nil {
			if d < time.Minute {
				return nil, fmt.Errorf("schedule interval %q too short (min 1m)", raw)
			}
			s = "@every " + d.String()
		}
	}

	sched, err := cronParser.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", raw, err)
	}
	return sched, nil
}
