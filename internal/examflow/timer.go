package examflow

import (
	"context"
	"sync"
	"time"
)

// DefaultTickInterval is the countdown resolution: one tick per second,
// matching the on-screen timer.
const DefaultTickInterval = time.Second

// Countdown is a cooperative one-tick-per-second exam timer. When the
// remaining time reaches zero it invokes the expiry callback exactly once —
// the same submission path as a manual submit. The timer is cancelled by
// Stop or by the context passed to Run.
type Countdown struct {
	duration time.Duration
	interval time.Duration
	onExpire func()

	mu       sync.Mutex
	deadline time.Time
	stopped  bool
	stopCh   chan struct{}
	fired    bool
}

// NewCountdown creates a countdown for the given duration. onExpire runs on
// the timer goroutine when the countdown reaches zero.
func NewCountdown(duration time.Duration, onExpire func()) *Countdown {
	return &Countdown{
		duration: duration,
		interval: DefaultTickInterval,
		onExpire: onExpire,
		stopCh:   make(chan struct{}),
	}
}

// NewCountdownWithInterval creates a countdown with a custom tick interval.
// Tests use short intervals; production code uses DefaultTickInterval.
func NewCountdownWithInterval(duration, interval time.Duration, onExpire func()) *Countdown {
	c := NewCountdown(duration, onExpire)
	c.interval = interval
	return c
}

// Run starts ticking and blocks until expiry, Stop, or ctx cancellation.
// Call in a goroutine.
func (c *Countdown) Run(ctx context.Context) {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.deadline = time.Now().Add(c.duration)
	c.mu.Unlock()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stopCh:
			return
		case <-ticker.C:
			if c.Remaining() <= 0 {
				c.expire()
				return
			}
		}
	}
}

// Remaining returns the time left, clamped to zero.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deadline.IsZero() {
		return c.duration
	}
	r := time.Until(c.deadline)
	if r < 0 {
		return 0
	}
	return r
}

// Stop cancels the countdown. Safe to call multiple times and after expiry.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	close(c.stopCh)
}

func (c *Countdown) expire() {
	c.mu.Lock()
	if c.fired || c.stopped {
		c.mu.Unlock()
		return
	}
	c.fired = true
	c.stopped = true
	close(c.stopCh)
	c.mu.Unlock()

	if c.onExpire != nil {
		c.onExpire()
	}
}
