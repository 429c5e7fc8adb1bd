// Package notify composes the channel layer: Pushover (primary), email and
// Telegram (optional), and a dry-run mode that surfaces the composed payload
// without touching the network. Each channel gets exactly one attempt per
// run and its failure is reported independently.
package notify
