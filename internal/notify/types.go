package notify

import "context"

// Alert is the fully composed payload of one run. Channels pick the rendering
// that suits their medium: push-style channels send the bounded Preview,
// email sends the full Body.
type Alert struct {
	Title   string
	Preview string
	Body    string
	Count   int
}

// Channel delivers one alert through one medium. Implementations make a
// single attempt; there is no retry or delivery guarantee beyond that.
type Channel interface {
	Name() string
	Send(ctx context.Context, a Alert) error
}

// Outcome records what happened on one channel during a dispatch.
type Outcome struct {
	Channel   string
	Attempted bool
	Succeeded bool
	Err       error
}
