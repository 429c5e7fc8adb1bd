package runner

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"riskwatch/internal/config"
	"riskwatch/internal/notify"
	"riskwatch/internal/resolve"
	"riskwatch/internal/review"
	"riskwatch/internal/store"
	"riskwatch/internal/summary"
	"riskwatch/pkg/logx"
)

// Runner executes the alert pipeline: resolve schema, fetch, filter,
// summarize, dispatch. It holds no state across passes beyond the current
// config, so every pass is independently repeatable.
type Runner struct {
	mu      sync.RWMutex
	cfg     *config.Config
	limiter *rate.Limiter

	log logx.Logger
}

func New(cfg *config.Config, log logx.Logger) *Runner {
	return &Runner{cfg: cfg, limiter: sendLimiter(cfg), log: log}
}

// sendLimiter paces channel sends across passes, so a tight watch schedule
// cannot flood the notification providers.
func sendLimiter(cfg *config.Config) *rate.Limiter {
	n := cfg.Notify.RatePerMin
	if n <= 0 {
		n = 30
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
}

// SetConfig swaps the config used by subsequent passes (watch-mode reload).
// The send limiter is rebuilt from the new config.
func (r *Runner) SetConfig(cfg *config.Config) {
	r.mu.Lock()
	r.cfg = cfg
	r.limiter = sendLimiter(cfg)
	r.mu.Unlock()
}

func (r *Runner) current() (*config.Config, *rate.Limiter) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg, r.limiter
}

// RunOnce performs one full pass. Zero pending records is quiet success.
// Any fatal fetch error, exhausted schema catalog, or channel delivery
// failure is returned to the caller.
func (r *Runner) RunOnce(ctx context.Context) error {
	cfg, limiter := r.current()
	start := time.Now()

	client := store.NewClient(store.Config{
		BaseURL:    cfg.Supabase.URL,
		ServiceKey: cfg.Supabase.ServiceRoleKey,
		Timeout:    cfg.Supabase.RequestTimeoutDuration(),
		RatePerSec: cfg.Supabase.RatePerSec,
	}, r.log)

	override := review.FieldMapping{
		Name:       cfg.Query.NameField,
		Identifier: cfg.Query.IdentifierField,
		Reason:     cfg.Query.ReasonField,
	}
	res, err := resolve.Resolve(ctx, client, resolve.Params{
		Table:         cfg.Query.Table,
		PageSize:      cfg.Query.PageSize,
		StatusColumn:  cfg.Query.StatusField,
		ReviewedValue: cfg.Query.ReviewedValue,
		Catalog:       resolve.Catalog(override),
	}, r.log)
	if err != nil {
		return err
	}

	r.log.Info("scan complete",
		logx.String("table", cfg.Query.Table),
		logx.String("fields", res.Mapping.String()),
		logx.Bool("filtered", res.Filtered),
		logx.Int("records", len(res.Records)),
		logx.Duration("took", time.Since(start)))

	pending := review.Pending(res.Records, res.Mapping)
	if len(pending) == 0 {
		r.log.Info("no pending review records; nothing to send")
		return nil
	}

	lim := summary.Limits{
		Rows:          cfg.Preview.Rows,
		ReasonBudget:  cfg.Preview.ReasonBudget,
		MessageBudget: cfg.Preview.MessageBudget,
	}
	alert := notify.Alert{
		Title:   summary.Title(len(pending)),
		Preview: summary.Preview(pending, res.Mapping, cfg.Query.Table, lim),
		Body:    summary.Body(pending, res.Mapping, cfg.Query.Table, time.Now()),
		Count:   len(pending),
	}

	disp, err := r.dispatcher(cfg, limiter)
	if err != nil {
		return err
	}

	outcomes, err := disp.Dispatch(ctx, alert)
	for _, o := range outcomes {
		r.log.Info("channel outcome",
			logx.String("channel", o.Channel),
			logx.Bool("attempted", o.Attempted),
			logx.Bool("succeeded", o.Succeeded),
			logx.Err(o.Err))
	}
	return err
}

func (r *Runner) dispatcher(cfg *config.Config, limiter *rate.Limiter) (*notify.Dispatcher, error) {
	push := notify.NewPushover(notify.PushoverConfig{
		Token:    cfg.Notify.Pushover.Token,
		User:     cfg.Notify.Pushover.User,
		Priority: cfg.Notify.Pushover.PriorityValue(),
		Sound:    cfg.Notify.Pushover.Sound,
		URL:      cfg.Notify.Pushover.URL,
		URLTitle: cfg.Notify.Pushover.URLTitle,
	})

	var secondary []notify.Channel
	if e := cfg.Notify.Email; e != nil && e.Enabled {
		secondary = append(secondary, notify.NewEmail(notify.EmailConfig{
			Host:     e.Host,
			Port:     e.Port,
			Username: e.Username,
			Password: e.Password,
			From:     e.From,
			To:       e.To,
		}))
	} else {
		r.log.Debug("email channel disabled")
	}
	if t := cfg.Notify.Telegram; t != nil && t.Enabled {
		tg, err := notify.NewTelegram(notify.TelegramConfig{Token: t.Token, ChatID: t.ChatID})
		if err != nil {
			return nil, err
		}
		secondary = append(secondary, tg)
	}

	return notify.NewDispatcher(push, secondary, cfg.Notify.DryRun, limiter, r.log), nil
}
