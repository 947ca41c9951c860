package runner

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultPollInterval is how often Monitor polls its trigger.
const DefaultPollInterval = 50 * time.Millisecond

// Trigger is an external cancel source, e.g. a hotkey.
type Trigger interface {
	Fired() bool
}

// Monitor polls t every interval and calls cancel once it fires. It returns
// after firing or when ctx is done.
func Monitor(ctx context.Context, t Trigger, interval time.Duration, cancel func()) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if t.Fired() {
				cancel()
				return
			}
		}
	}
}

// FlagTrigger fires once Set has been called. It never resets.
type FlagTrigger struct {
	fired atomic.Bool
}

// Set fires the trigger.
func (f *FlagTrigger) Set() { f.fired.Store(true) }

// Fired implements Trigger.
func (f *FlagTrigger) Fired() bool { return f.fired.Load() }

// SignalTrigger fires once any of its signals has been received.
type SignalTrigger struct {
	ch    chan os.Signal
	once  sync.Once
	fired atomic.Bool
}

// NewSignalTrigger subscribes to sigs. Call Stop to unsubscribe.
func NewSignalTrigger(sigs ...os.Signal) *SignalTrigger {
	t := &SignalTrigger{ch: make(chan os.Signal, 1)}
	signal.Notify(t.ch, sigs...)
	return t
}

// Fired implements Trigger.
func (t *SignalTrigger) Fired() bool {
	if t.fired.Load() {
		return true
	}
	select {
	case <-t.ch:
		t.fired.Store(true)
	default:
	}
	return t.fired.Load()
}

// Stop unsubscribes from the signals.
func (t *SignalTrigger) Stop() {
	t.once.Do(func() { signal.Stop(t.ch) })
}
