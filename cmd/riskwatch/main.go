package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"riskwatch/internal/config"
	"riskwatch/internal/runner"
	"riskwatch/pkg/logx"
)

func main() {
	var (
		cfgPath string
		dryRun  bool
		watch   bool
	)
	flag.StringVar(&cfgPath, "config", "", "path to config file (yaml or json); empty = env only")
	flag.BoolVar(&dryRun, "dry-run", false, "compose payloads but call no channel")
	flag.BoolVar(&watch, "watch", false, "run on the configured schedule instead of once")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mgr := config.NewManager(cfgPath, logx.NewConsole("info"))
	cfg, err := mgr.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
	if dryRun {
		cfg.Notify.DryRun = true
	}
	if watch {
		cfg.Watch.Enabled = true
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.ConsoleEnabled(),
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	defer logSvc.Close()

	r := runner.New(cfg, log)

	if cfg.Watch.Enabled {
		if cfgPath != "" {
			go func() {
				if err := mgr.Watch(ctx); err != nil {
					log.Warn("config watch stopped", logx.Err(err))
				}
			}()
		}
		if err := r.Watch(ctx, mgr); err != nil {
			log.Error("watch mode failed", logx.Err(err))
			os.Exit(1)
		}
		return
	}

	if err := r.RunOnce(ctx); err != nil {
		log.Error("run failed", logx.Err(err))
		os.Exit(1)
	}
}
