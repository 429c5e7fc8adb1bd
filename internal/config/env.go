package config

import (
	"os"
	"strconv"
	"strings"
)

// applyEnv layers the historical environment surface over whatever the file
// provided. Env always wins, so a scheduled environment (systemd unit, CI
// secret store) can run without any file at all.
func applyEnv(cfg *Config) {
	setStr(&cfg.Supabase.URL, "SUPABASE_URL")
	setStr(&cfg.Supabase.ServiceRoleKey, "SUPABASE_SERVICE_ROLE_KEY")

	setStr(&cfg.Query.Table, "RISK_REVIEWS_TABLE")
	setInt(&cfg.Query.PageSize, "PAGE_SIZE")
	setStr(&cfg.Query.StatusField, "STATUS_FIELD")
	setStr(&cfg.Query.ReviewedValue, "REVIEWED_VALUE")
	setStr(&cfg.Query.NameField, "NAME_FIELD")
	setStr(&cfg.Query.IdentifierField, "IDENTIFIER_FIELD")
	setStr(&cfg.Query.ReasonField, "REASON_FIELD")

	setInt(&cfg.Preview.Rows, "PREVIEW_ROWS")

	setStr(&cfg.Notify.Pushover.Token, "PUSHOVER_TOKEN")
	setStr(&cfg.Notify.Pushover.User, "PUSHOVER_USER")

	if v, ok := lookup("SMTP_HOST"); ok {
		if cfg.Notify.Email == nil {
			cfg.Notify.Email = &EmailConfig{Enabled: true}
		}
		cfg.Notify.Email.Host = v
	}
	if cfg.Notify.Email != nil {
		setInt(&cfg.Notify.Email.Port, "SMTP_PORT")
		setStr(&cfg.Notify.Email.Username, "SMTP_USERNAME")
		setStr(&cfg.Notify.Email.Password, "SMTP_PASSWORD")
		setStr(&cfg.Notify.Email.From, "EMAIL_FROM")
		setStr(&cfg.Notify.Email.To, "EMAIL_TO")
	}

	if v, ok := lookup("TELEGRAM_TOKEN"); ok {
		if cfg.Notify.Telegram == nil {
			cfg.Notify.Telegram = &TelegramConfig{Enabled: true}
		}
		cfg.Notify.Telegram.Token = v
	}
	if cfg.Notify.Telegram != nil {
		if v, ok := lookup("TELEGRAM_CHAT_ID"); ok {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil {
				cfg.Notify.Telegram.ChatID = id
			}
		}
	}
}

func lookup(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(name))
	return v, v != ""
}

func setStr(dst *string, name string) {
	if v, ok := lookup(name); ok {
		*dst = v
	}
}

func setInt(dst *int, name string) {
	if v, ok := lookup(name); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
