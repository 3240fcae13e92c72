package monitor

import (
	"context"
	"time"
)

// DefaultInterval is the time between poll cycles.
const DefaultInterval = time.Second

// EmitFunc receives the events of one poll cycle. It is only called when the
// cycle produced at least one event.
type EmitFunc func(events []Event) error

// RunOptions configures Run.
type RunOptions struct {
	// Interval is the wait between cycles. Zero means DefaultInterval.
	Interval time.Duration
	// IntervalUpdates, if set, delivers new intervals while running. A received
	// value restarts the current wait with the new interval.
	IntervalUpdates <-chan time.Duration
}

// Run drives m until ctx is cancelled: detect, emit, wait, repeat. The first
// cycle runs immediately. Cancellation is only observed between cycles; it
// returns nil. An error from emit stops the loop and is returned.
func Run(ctx context.Context, m *Monitor, emit EmitFunc, opts RunOptions) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	updates := opts.IntervalUpdates

	for {
		if ctx.Err() != nil {
			return nil
		}

		if events := m.Detect(); len(events) > 0 {
			if err := emit(events); err != nil {
				return err
			}
		}

		var ok bool
		interval, updates, ok = m.wait(ctx, interval, updates)
		if !ok {
			return nil
		}
	}
}

// wait blocks for one interval. It returns false if ctx was cancelled.
func (m *Monitor) wait(ctx context.Context, interval time.Duration, updates <-chan time.Duration) (time.Duration, <-chan time.Duration, bool) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return interval, updates, false
		case d, open := <-updates:
			if !open {
				updates = nil
				continue
			}
			if d <= 0 {
				m.logger.Warnf("Ignoring non-positive poll interval %s", d)
				continue
			}
			if d != interval {
				m.logger.Infof("Poll interval changed from %s to %s", interval, d)
			}
			interval = d
			timer.Reset(interval)
		case <-timer.C:
			return interval, updates, true
		}
	}
}
