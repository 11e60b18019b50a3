package middleware

import (
	"testing"
	"time"
)

func TestWindowBucketStableWithinWindow(t *testing.T) {
	window := time.Minute
	base := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	first := windowBucket(base, window)
	for _, offset := range []time.Duration{time.Second, 30 * time.Second, 59 * time.Second} {
		if got := windowBucket(base.Add(offset), window); got != first {
			t.Fatalf("bucket changed within window at +%s: %d != %d", offset, got, first)
		}
	}
}

func TestWindowBucketAdvancesAcrossBoundary(t *testing.T) {
	window := time.Minute
	base := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	before := windowBucket(base.Add(59*time.Second), window)
	after := windowBucket(base.Add(60*time.Second), window)
	if after != before+1 {
		t.Fatalf("expected next bucket %d, got %d", before+1, after)
	}
}

func TestWindowBucketSubSecondWindow(t *testing.T) {
	// Windows shorter than a second clamp to one second instead of
	// dividing by zero.
	now := time.Now()
	if got, want := windowBucket(now, 100*time.Millisecond), now.Unix(); got != want {
		t.Fatalf("expected %d, got %d", want, got)
	}
}
