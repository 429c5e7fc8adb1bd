package config

// Config is the full runtime configuration. It is loaded from an optional
// YAML/JSON file, then overridden by environment variables, then validated.
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
type Config struct {
	Supabase SupabaseConfig `json:"supabase"`
	Query    QueryConfig    `json:"query"`
	Preview  PreviewConfig  `json:"preview,omitempty"`
	Notify   NotifyConfig   `json:"notify"`
	Logging  LoggingConfig  `json:"logging,omitempty"`
	Watch    WatchConfig    `json:"watch,omitempty"`
}

type SupabaseConfig struct {
	URL string `json:"url"`
	// ServiceRoleKey is usually supplied via SUPABASE_SERVICE_ROLE_KEY
	// rather than the file. Do not log it.
	ServiceRoleKey string `json:"service_role_key,omitempty"`

	// RequestTimeout bounds every single fetch request. Default "30s".
	RequestTimeout string `json:"request_timeout,omitempty"`

	// RatePerSec throttles page fetches. Default 5.
	RatePerSec int `json:"rate_per_sec,omitempty"`
}

type QueryConfig struct {
	Table         string `json:"table,omitempty"`          // default "risk_reviews"
	PageSize      int    `json:"page_size,omitempty"`      // default 500
	StatusField   string `json:"status_field,omitempty"`   // default "status"
	ReviewedValue string `json:"reviewed_value,omitempty"` // default "reviewed"

	// Column-name overrides. When any is set, the override tuple is tried
	// before the built-in conventions.
	NameField       string `json:"name_field,omitempty"`
	IdentifierField string `json:"identifier_field,omitempty"`
	ReasonField     string `json:"reason_field,omitempty"`
}

type PreviewConfig struct {
	Rows          int `json:"rows,omitempty"`           // default 5
	ReasonBudget  int `json:"reason_budget,omitempty"`  // runes per reason, default 120
	MessageBudget int `json:"message_budget,omitempty"` // runes per message, default 950
}

type NotifyConfig struct {
	DryRun   bool            `json:"dry_run,omitempty"`
	Pushover PushoverConfig  `json:"pushover"`
	Email    *EmailConfig    `json:"email,omitempty"`
	Telegram *TelegramConfig `json:"telegram,omitempty"`

	// RatePerMin paces channel sends across scheduled passes. Default 30.
	RatePerMin int `json:"rate_per_min,omitempty"`
}

type PushoverConfig struct {
	Token string `json:"token,omitempty"` // usually via PUSHOVER_TOKEN
	User  string `json:"user,omitempty"`  // usually via PUSHOVER_USER

	// Priority is a pointer so that an explicit 0 (normal priority) is
	// distinguishable from unset. Unset defaults to 1 (high).
	Priority *int `json:"priority,omitempty"`

	Sound    string `json:"sound,omitempty"`
	URL      string `json:"url,omitempty"`
	URLTitle string `json:"url_title,omitempty"`
}

// PriorityValue resolves the priority, defaulting to 1.
func (p PushoverConfig) PriorityValue() int {
	if p.Priority == nil {
		return 1
	}
	return *p.Priority
}

type EmailConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host,omitempty"`
	Port     int    `json:"port,omitempty"` // default 587
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

type TelegramConfig struct {
	Enabled bool   `json:"enabled"`
	Token   string `json:"token,omitempty"`
	ChatID  int64  `json:"chat_id,omitempty"`
}

type LoggingConfig struct {
	Level   string            `json:"level,omitempty"`
	Console *bool             `json:"console,omitempty"` // default true
	File    LoggingFileConfig `json:"file,omitempty"`
}

type LoggingFileConfig struct {
	Enabled bool   `json:"enabled,omitempty"`
	Path    string `json:"path,omitempty"`
}

// WatchConfig turns the one-shot run into a scheduled loop.
type WatchConfig struct {
	Enabled bool `json:"enabled,omitempty"`

	// Schedule accepts a cron expression ("*/15 * * * *", "@hourly",
	// "@every 10m") or a bare Go duration ("10m"). Default "@every 15m".
	Schedule string `json:"schedule,omitempty"`

	// Timezone is an IANA name, e.g. "Asia/Jerusalem". Default: local.
	Timezone string `json:"timezone,omitempty"`
}

// ConsoleEnabled resolves the tri-state console flag.
func (l LoggingConfig) ConsoleEnabled() bool {
	if l.Console == nil {
		return true
	}
	return *l.Console
}
