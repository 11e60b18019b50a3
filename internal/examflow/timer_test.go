package examflow

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestCountdownFiresAtOrBeforeDuration(t *testing.T) {
	// Scaled-down model of a 1-minute exam: 60 ticks of 1ms.
	var fired int32
	done := make(chan struct{})

	c := NewCountdownWithInterval(60*time.Millisecond, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
		close(done)
	})

	start := time.Now()
	go c.Run(context.Background())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never fired")
	}

	// Expiry must occur at or after the configured duration, and within a
	// generous scheduling margin. (Real exams use 1s ticks; the wall-clock
	// bound scales the same way.)
	elapsed := time.Since(start)
	if elapsed < 60*time.Millisecond {
		t.Errorf("fired early: %v", elapsed)
	}
	if elapsed > time.Second {
		t.Errorf("fired far too late: %v", elapsed)
	}
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("expected exactly one expiry, got %d", n)
	}
}

func TestCountdownStopPreventsExpiry(t *testing.T) {
	var fired int32
	c := NewCountdownWithInterval(20*time.Millisecond, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	go c.Run(context.Background())
	c.Stop()

	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Errorf("expected no expiry after Stop, got %d", n)
	}
}

func TestCountdownContextCancellation(t *testing.T) {
	var fired int32
	c := NewCountdownWithInterval(20*time.Millisecond, time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Run(ctx) // Returns immediately; never ticks to zero.

	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Errorf("expected no expiry after context cancel, got %d", n)
	}
}

func TestRemainingClampsToZero(t *testing.T) {
	done := make(chan struct{})
	c := NewCountdownWithInterval(5*time.Millisecond, time.Millisecond, func() {
		close(done)
	})
	go c.Run(context.Background())

	<-done
	if r := c.Remaining(); r != 0 {
		t.Errorf("expected zero remaining after expiry, got %v", r)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	c := NewCountdown(time.Minute, nil)
	c.Stop()
	c.Stop() // Must not panic on double close.
}
