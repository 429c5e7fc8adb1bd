// Package runner wires the pipeline stages together and drives them either
// once (the default) or on a schedule (watch mode, with config hot-reload
// and systemd readiness/watchdog notifications).
package runner
