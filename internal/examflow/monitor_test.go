package examflow

import (
	"sync"
	"testing"
)

func TestMonitorTripsAtLimit(t *testing.T) {
	var trips int
	m := NewMonitor(10, func() { trips++ })

	for i := 1; i <= 9; i++ {
		count, tripped := m.Record(ViolationTabHidden)
		if count != i {
			t.Fatalf("violation %d: count %d", i, count)
		}
		if tripped {
			t.Fatalf("violation %d: tripped before limit", i)
		}
	}

	count, tripped := m.Record(ViolationTabHidden)
	if count != 10 || !tripped {
		t.Fatalf("tenth violation: count=%d tripped=%v", count, tripped)
	}
	if trips != 1 {
		t.Fatalf("expected one limit callback, got %d", trips)
	}
}

func TestMonitorCallbackFiresOnce(t *testing.T) {
	var trips int
	m := NewMonitor(3, func() { trips++ })

	for i := 0; i < 8; i++ {
		m.Record(ViolationFocusLost)
	}

	if trips != 1 {
		t.Fatalf("expected one callback, got %d", trips)
	}
	if m.Count() != 8 {
		t.Fatalf("expected counting past limit, got %d", m.Count())
	}
	if !m.Tripped() {
		t.Fatal("expected tripped")
	}
}

func TestMonitorResumeFromPersistedCount(t *testing.T) {
	var trips int
	m := NewMonitorAt(10, 9, func() { trips++ })

	_, tripped := m.Record(ViolationTabHidden)
	if !tripped {
		t.Fatal("expected resume at 9 to trip on next violation")
	}
	if trips != 1 {
		t.Fatalf("expected one callback, got %d", trips)
	}
}

func TestMonitorConcurrentRecords(t *testing.T) {
	var mu sync.Mutex
	trips := 0
	m := NewMonitor(10, func() {
		mu.Lock()
		trips++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Record(ViolationTabHidden)
		}()
	}
	wg.Wait()

	if m.Count() != 50 {
		t.Fatalf("expected 50 violations, got %d", m.Count())
	}
	mu.Lock()
	defer mu.Unlock()
	if trips != 1 {
		t.Fatalf("expected exactly one callback under concurrency, got %d", trips)
	}
}

func TestDefaultLimitFallback(t *testing.T) {
	m := NewMonitor(0, nil)
	for i := 0; i < DefaultViolationLimit-1; i++ {
		if _, tripped := m.Record(ViolationTabHidden); tripped {
			t.Fatalf("tripped at %d, before default limit", i+1)
		}
	}
	if _, tripped := m.Record(ViolationTabHidden); !tripped {
		t.Fatal("expected trip at default limit")
	}
}

func TestBlockedShortcuts(t *testing.T) {
	cases := []struct {
		key         string
		ctrl, shift bool
		blocked     bool
	}{
		{"c", true, false, true},
		{"p", true, false, true},
		{"F12", false, false, true},
		{"i", true, true, true},
		{"c", false, false, false}, // plain typing is fine
		{"z", true, false, false},
	}
	for _, tc := range cases {
		if got := IsBlockedShortcut(tc.key, tc.ctrl, tc.shift); got != tc.blocked {
			t.Errorf("IsBlockedShortcut(%q, ctrl=%v, shift=%v) = %v, want %v",
				tc.key, tc.ctrl, tc.shift, got, tc.blocked)
		}
	}
}
