package runner

import (
	"context"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"riskwatch/internal/config"
	"riskwatch/pkg/logx"
)

// Watch runs the pipeline on the configured schedule until ctx is done.
// Failed passes are logged and the loop keeps going; only a cancelled context
// ends watch mode. Passes never overlap: the next trigger is computed after
// the current pass returns.
func (r *Runner) Watch(ctx context.Context, mgr *config.Manager) error {
	cfg, _ := r.current()

	sched, err := ParseSchedule(cfg.Watch.Schedule)
	if err != nil {
		return err
	}

	loc := time.Local
	if tz := strings.TrimSpace(cfg.Watch.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return err
		}
		loc = l
	}

	// systemd integration is best-effort: outside a unit these are no-ops.
	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err == nil && ok {
		r.log.Debug("systemd notified ready")
	}
	stopWatchdog := startWatchdog(ctx, r.log)
	defer stopWatchdog()

	var updates chan *config.Config
	if mgr != nil {
		updates = mgr.Subscribe(1)
		defer mgr.Unsubscribe(updates)
	}

	r.log.Info("watch mode started", logx.String("schedule", cfg.Watch.Schedule))

	for {
		next := sched.Next(time.Now().In(loc))
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			return nil

		case newCfg, ok := <-updates:
			timer.Stop()
			if !ok {
				updates = nil
				continue
			}
			r.SetConfig(newCfg)
			if s, err := ParseSchedule(newCfg.Watch.Schedule); err == nil {
				sched = s
			} else {
				r.log.Warn("keeping previous schedule", logx.Err(err))
			}
			r.log.Info("config applied", logx.String("schedule", newCfg.Watch.Schedule))

		case <-timer.C:
			if err := r.RunOnce(ctx); err != nil {
				r.log.Error("pass failed", logx.Err(err))
			}
		}
	}
}

// startWatchdog pings the systemd watchdog at half its interval when one is
// armed for this unit.
func startWatchdog(ctx context.Context, log logx.Logger) func() {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil || interval <= 0 {
		return func() {}
	}

	wctx, cancel := context.WithCancel(ctx)
	go func() {
		t := time.NewTicker(interval / 2)
		defer t.Stop()
		for {
			select {
			case <-wctx.Done():
				return
			case <-t.C:
				_, _ = daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			}
		}
	}()
	log.Debug("systemd watchdog armed", logx.Duration("interval", interval))
	return cancel
}
