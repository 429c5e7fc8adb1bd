package notify

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/time/rate"

	"riskwatch/pkg/logx"
)

// Dispatcher sends one alert through the primary channel and any optional
// secondary channels. Channels are independent: a failure on one never
// prevents or rolls back another's attempt.
//
// The limiter paces sends across Dispatch calls, so a scheduled loop cannot
// flood the providers. A nil limiter disables pacing.
type Dispatcher struct {
	primary   Channel
	secondary []Channel
	dryRun    bool
	limiter   *rate.Limiter
	log       logx.Logger
}

func NewDispatcher(primary Channel, secondary []Channel, dryRun bool, limiter *rate.Limiter, log logx.Logger) *Dispatcher {
	return &Dispatcher{primary: primary, secondary: secondary, dryRun: dryRun, limiter: limiter, log: log}
}

// Dispatch delivers the alert once. It always returns the per-channel
// outcomes; the error is non-nil if any attempted channel failed, with the
// primary channel's failure taking precedence in the message.
func (d *Dispatcher) Dispatch(ctx context.Context, a Alert) ([]Outcome, error) {
	channels := make([]Channel, 0, 1+len(d.secondary))
	if d.primary != nil {
		channels = append(channels, d.primary)
	}
	channels = append(channels, d.secondary...)

	if d.dryRun {
		d.log.Info("dry run: no channel will be called",
			logx.String("title", a.Title),
			logx.Int("pending", a.Count))
		d.log.Info("dry run: composed preview\n" + a.Preview)
		d.log.Info("dry run: composed body\n" + a.Body)

		outcomes := make([]Outcome, 0, len(channels))
		for _, ch := range channels {
			outcomes = append(outcomes, Outcome{Channel: ch.Name(), Attempted: false, Succeeded: true})
		}
		return outcomes, nil
	}

	outcomes := make([]Outcome, 0, len(channels))
	var primaryErr error
	var secondaryErrs []error

	for i, ch := range channels {
		if d.limiter != nil {
			if werr := d.limiter.Wait(ctx); werr != nil {
				outcomes = append(outcomes, Outcome{Channel: ch.Name(), Err: werr})
				if i == 0 && d.primary != nil {
					primaryErr = fmt.Errorf("primary channel %s: %w", ch.Name(), werr)
				} else {
					secondaryErrs = append(secondaryErrs, fmt.Errorf("channel %s: %w", ch.Name(), werr))
				}
				continue
			}
		}
		err := ch.Send(ctx, a)
		outcomes = append(outcomes, Outcome{
			Channel:   ch.Name(),
			Attempted: true,
			Succeeded: err == nil,
			Err:       err,
		})
		if err == nil {
			d.log.Info("alert sent", logx.String("channel", ch.Name()), logx.Int("pending", a.Count))
			continue
		}
		d.log.Error("alert delivery failed", logx.String("channel", ch.Name()), logx.Err(err))
		if i == 0 && d.primary != nil {
			primaryErr = fmt.Errorf("primary channel %s: %w", ch.Name(), err)
		} else {
			secondaryErrs = append(secondaryErrs, fmt.Errorf("channel %s: %w", ch.Name(), err))
		}
	}

	if primaryErr != nil {
		return outcomes, errors.Join(append([]error{primaryErr}, secondaryErrs...)...)
	}
	if len(secondaryErrs) > 0 {
		return outcomes, errors.Join(secondaryErrs...)
	}
	return outcomes, nil
}
