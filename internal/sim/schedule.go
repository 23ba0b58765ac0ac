package sim

import (
	"context"
	"time"
)

// Scheduler paces the simulation loop. Wait blocks until the next sample
// is due or ctx is done.
type Scheduler interface {
	Wait(ctx context.Context) error
}

// Unpaced never blocks. It is used for offline runs.
type Unpaced struct{}

// Wait returns ctx.Err() without blocking.
func (Unpaced) Wait(ctx context.Context) error {
	return ctx.Err()
}

// TickerScheduler releases one sample per interval at a fixed rate.
// Ticks missed while the loop was busy are dropped, not queued.
type TickerScheduler struct {
	interval time.Duration
	ticker   *time.Ticker
}

// NewTickerScheduler returns a scheduler with the given interval. The
// ticker starts on the first Wait.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	return &TickerScheduler{interval: interval}
}

// Interval returns the configured period.
func (t *TickerScheduler) Interval() time.Duration {
	return t.interval
}

// Wait blocks until the next tick.
func (t *TickerScheduler) Wait(ctx context.Context) error {
	if t.interval <= 0 {
		return ctx.Err()
	}
	if t.ticker == nil {
		t.ticker = time.NewTicker(t.interval)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.ticker.C:
		return nil
	}
}

// Stop releases the ticker. A stopped scheduler restarts on the next Wait.
func (t *TickerScheduler) Stop() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
