package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate fails fast on anything that would otherwise surface mid-dispatch.
// It runs before any network call is made.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Supabase.URL) == "" {
		return fmt.Errorf("supabase.url is required (SUPABASE_URL)")
	}
	if u, err := url.Parse(cfg.Supabase.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("supabase.url is not a valid URL: %q", cfg.Supabase.URL)
	}
	if strings.TrimSpace(cfg.Supabase.ServiceRoleKey) == "" {
		return fmt.Errorf("supabase.service_role_key is required (SUPABASE_SERVICE_ROLE_KEY)")
	}
	if _, err := ParseDurationField("supabase.request_timeout", cfg.Supabase.RequestTimeout); err != nil {
		return err
	}

	if cfg.Query.PageSize <= 0 {
		return fmt.Errorf("query.page_size must be > 0")
	}

	// Pushover is the primary alert path; without it a real run cannot do its
	// job. Dry runs compose payloads only, so they get a pass.
	if !cfg.Notify.DryRun {
		if cfg.Notify.Pushover.Token == "" {
			return fmt.Errorf("notify.pushover.token is required (PUSHOVER_TOKEN)")
		}
		if cfg.Notify.Pushover.User == "" {
			return fmt.Errorf("notify.pushover.user is required (PUSHOVER_USER)")
		}
	}
	if p := cfg.Notify.Pushover.PriorityValue(); p < -2 || p > 2 {
		return fmt.Errorf("notify.pushover.priority must be in -2..2, got %d", p)
	}

	if e := cfg.Notify.Email; e != nil && e.Enabled {
		if e.Host == "" {
			return fmt.Errorf("notify.email.host is required when email is enabled (SMTP_HOST)")
		}
		if e.From == "" {
			return fmt.Errorf("notify.email.from is required when email is enabled (EMAIL_FROM)")
		}
		if e.To == "" {
			return fmt.Errorf("notify.email.to is required when email is enabled (EMAIL_TO)")
		}
	}

	if t := cfg.Notify.Telegram; t != nil && t.Enabled {
		if t.Token == "" {
			return fmt.Errorf("notify.telegram.token is required when telegram is enabled (TELEGRAM_TOKEN)")
		}
		if t.ChatID == 0 {
			return fmt.Errorf("notify.telegram.chat_id is required when telegram is enabled (TELEGRAM_CHAT_ID)")
		}
	}

	if cfg.Watch.Enabled {
		if strings.TrimSpace(cfg.Watch.Schedule) == "" {
			return fmt.Errorf("watch.schedule is required when watch is enabled")
		}
		if tz := strings.TrimSpace(cfg.Watch.Timezone); tz != "" {
			if _, err := time.LoadLocation(tz); err != nil {
				return fmt.Errorf("watch.timezone: %w", err)
			}
		}
	}

	return nil
}

// RequestTimeoutDuration returns the parsed per-request timeout, with unset
// or invalid values resolving to the 30s default. Validate has already
// rejected invalid values on any config that reaches a live run.
func (s SupabaseConfig) RequestTimeoutDuration() time.Duration {
	d, err := ParseDurationOrDefault("supabase.request_timeout", s.RequestTimeout, defaultRequestTimeout)
	if err != nil {
		return defaultRequestTimeout
	}
	return d
}
