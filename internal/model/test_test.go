package model

import (
	"testing"
	"time"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestValidateWindow(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("NoExpiryAlwaysValid", func(t *testing.T) {
		test := &Test{HasExpiry: false}
		if err := test.ValidateWindow(); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	})

	t.Run("EndAfterStartValid", func(t *testing.T) {
		test := &Test{
			HasExpiry: true,
			StartTime: timePtr(base),
			EndTime:   timePtr(base.Add(2 * time.Hour)),
		}
		if err := test.ValidateWindow(); err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
	})

	t.Run("EndEqualStartInvalid", func(t *testing.T) {
		test := &Test{
			HasExpiry: true,
			StartTime: timePtr(base),
			EndTime:   timePtr(base),
		}
		if err := test.ValidateWindow(); err != ErrExpiryWindowInvalid {
			t.Fatalf("expected ErrExpiryWindowInvalid, got %v", err)
		}
	})

	t.Run("EndBeforeStartInvalid", func(t *testing.T) {
		test := &Test{
			HasExpiry: true,
			StartTime: timePtr(base),
			EndTime:   timePtr(base.Add(-time.Minute)),
		}
		if err := test.ValidateWindow(); err != ErrExpiryWindowInvalid {
			t.Fatalf("expected ErrExpiryWindowInvalid, got %v", err)
		}
	})

	t.Run("MissingBoundsInvalid", func(t *testing.T) {
		test := &Test{HasExpiry: true, StartTime: timePtr(base)}
		if err := test.ValidateWindow(); err != ErrExpiryWindowInvalid {
			t.Fatalf("expected ErrExpiryWindowInvalid, got %v", err)
		}
	})
}

func TestWindowStateAt(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(3 * time.Hour)

	test := &Test{
		HasExpiry: true,
		StartTime: &start,
		EndTime:   &end,
	}

	t.Run("BeforeStartIsNotStarted", func(t *testing.T) {
		if got := test.WindowStateAt(start.Add(-time.Second)); got != WindowNotStarted {
			t.Fatalf("expected %s, got %s", WindowNotStarted, got)
		}
	})

	t.Run("InsideWindowIsOpen", func(t *testing.T) {
		if got := test.WindowStateAt(start.Add(time.Hour)); got != WindowOpen {
			t.Fatalf("expected %s, got %s", WindowOpen, got)
		}
	})

	t.Run("AtStartIsOpen", func(t *testing.T) {
		if got := test.WindowStateAt(start); got != WindowOpen {
			t.Fatalf("expected %s, got %s", WindowOpen, got)
		}
	})

	t.Run("AfterEndIsClosed", func(t *testing.T) {
		if got := test.WindowStateAt(end.Add(time.Second)); got != WindowClosed {
			t.Fatalf("expected %s, got %s", WindowClosed, got)
		}
	})

	t.Run("NoExpiryAlwaysOpen", func(t *testing.T) {
		open := &Test{HasExpiry: false}
		if got := open.WindowStateAt(end.Add(24 * time.Hour)); got != WindowOpen {
			t.Fatalf("expected %s, got %s", WindowOpen, got)
		}
	})
}

func TestCorrectOption(t *testing.T) {
	q := &Question{Options: []Option{
		{Text: "Delhi"},
		{Text: "Mumbai", IsCorrect: true},
		{Text: "Pune"},
	}}
	if got := q.CorrectOption(); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}

	none := &Question{Options: []Option{{Text: "A"}, {Text: "B"}}}
	if got := none.CorrectOption(); got != -1 {
		t.Fatalf("expected -1 for unmarked question, got %d", got)
	}
}

func TestForStudentStripsCorrectness(t *testing.T) {
	q := &Question{
		Text:        "2 + 2 = ?",
		Options:     []Option{{Text: "3"}, {Text: "4", IsCorrect: true}},
		Explanation: "Basic arithmetic",
	}

	stripped := q.ForStudent()
	if len(stripped.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(stripped.Options))
	}
	for i, opt := range stripped.Options {
		if opt != q.Options[i].Text {
			t.Errorf("option %d: expected %q, got %q", i, q.Options[i].Text, opt)
		}
	}
}
