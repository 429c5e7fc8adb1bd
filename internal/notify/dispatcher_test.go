package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"riskwatch/pkg/logx"
)

type fakeChannel struct {
	name  string
	err   error
	calls int
	seen  []Alert
}

func (f *fakeChannel) Name() string { return f.name }
func (f *fakeChannel) Send(_ context.Context, a Alert) error {
	f.calls++
	f.seen = append(f.seen, a)
	return f.err
}

var testAlert = Alert{Title: "t", Preview: "p", Body: "b", Count: 3}

func TestDispatchAllSucceed(t *testing.T) {
	t.Parallel()
	push := &fakeChannel{name: "pushover"}
	email := &fakeChannel{name: "email"}

	d := NewDispatcher(push, []Channel{email}, false, nil, logx.Nop())
	outcomes, err := d.Dispatch(context.Background(), testAlert)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if push.calls != 1 || email.calls != 1 {
		t.Fatalf("calls: push=%d email=%d", push.calls, email.calls)
	}
	for _, o := range outcomes {
		if !o.Attempted || !o.Succeeded || o.Err != nil {
			t.Fatalf("unexpected outcome: %+v", o)
		}
	}
}

func TestDispatchSecondaryFailureDoesNotBlockOthers(t *testing.T) {
	t.Parallel()
	push := &fakeChannel{name: "pushover"}
	email := &fakeChannel{name: "email", err: errors.New("smtp down")}
	tg := &fakeChannel{name: "telegram"}

	d := NewDispatcher(push, []Channel{email, tg}, false, nil, logx.Nop())
	outcomes, err := d.Dispatch(context.Background(), testAlert)
	if err == nil {
		t.Fatal("expected error for failed secondary channel")
	}
	if push.calls != 1 || tg.calls != 1 {
		t.Fatalf("independent channels skipped: push=%d telegram=%d", push.calls, tg.calls)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].Succeeded != true || outcomes[1].Succeeded != false || outcomes[2].Succeeded != true {
		t.Fatalf("unexpected outcomes: %+v", outcomes)
	}
}

func TestDispatchPrimaryFailureStillAttemptsSecondary(t *testing.T) {
	t.Parallel()
	push := &fakeChannel{name: "pushover", err: errors.New("pushover 500")}
	email := &fakeChannel{name: "email"}

	d := NewDispatcher(push, []Channel{email}, false, nil, logx.Nop())
	_, err := d.Dispatch(context.Background(), testAlert)
	if err == nil {
		t.Fatal("expected error for failed primary channel")
	}
	if !errors.Is(err, push.err) {
		t.Fatalf("primary failure not surfaced: %v", err)
	}
	if email.calls != 1 {
		t.Fatal("secondary channel skipped after primary failure")
	}
}

func TestDispatchDryRunCallsNothing(t *testing.T) {
	t.Parallel()
	push := &fakeChannel{name: "pushover"}
	email := &fakeChannel{name: "email"}

	d := NewDispatcher(push, []Channel{email}, true, nil, logx.Nop())
	outcomes, err := d.Dispatch(context.Background(), testAlert)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if push.calls != 0 || email.calls != 0 {
		t.Fatalf("dry run still called channels: push=%d email=%d", push.calls, email.calls)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Attempted || !o.Succeeded {
			t.Fatalf("dry-run outcome should be success-without-attempt: %+v", o)
		}
	}
}

func TestDispatchLimiterPacesSends(t *testing.T) {
	t.Parallel()
	push := &fakeChannel{name: "pushover"}
	email := &fakeChannel{name: "email"}

	// One token, then an hour until the next: the second send cannot proceed
	// before the context deadline.
	lim := rate.NewLimiter(rate.Every(time.Hour), 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	d := NewDispatcher(push, []Channel{email}, false, lim, logx.Nop())
	outcomes, err := d.Dispatch(ctx, testAlert)
	if err == nil {
		t.Fatal("expected error when the limiter blocks past the deadline")
	}
	if push.calls != 1 {
		t.Fatalf("primary should spend the available token, calls=%d", push.calls)
	}
	if email.calls != 0 {
		t.Fatalf("secondary sent despite exhausted limiter, calls=%d", email.calls)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[1].Attempted || outcomes[1].Succeeded || outcomes[1].Err == nil {
		t.Fatalf("throttled channel outcome: %+v", outcomes[1])
	}
}

func TestDispatchLimiterWithBurstSendsAll(t *testing.T) {
	t.Parallel()
	push := &fakeChannel{name: "pushover"}
	email := &fakeChannel{name: "email"}

	lim := rate.NewLimiter(rate.Every(time.Minute), 2)
	d := NewDispatcher(push, []Channel{email}, false, lim, logx.Nop())
	if _, err := d.Dispatch(context.Background(), testAlert); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if push.calls != 1 || email.calls != 1 {
		t.Fatalf("calls: push=%d email=%d", push.calls, email.calls)
	}
}

func TestDispatchPassesComposedAlert(t *testing.T) {
	t.Parallel()
	push := &fakeChannel{name: "pushover"}
	d := NewDispatcher(push, nil, false, nil, logx.Nop())
	if _, err := d.Dispatch(context.Background(), testAlert); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if len(push.seen) != 1 || push.seen[0] != testAlert {
		t.Fatalf("alert mangled in flight: %+v", push.seen)
	}
}
