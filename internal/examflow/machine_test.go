package examflow

import (
	"errors"
	"testing"
)

func TestHappyPathTransitions(t *testing.T) {
	m := NewMachine()

	steps := []struct {
		event Event
		want  Step
	}{
		{EventChooseLogin, StepLogin},
		{EventAuthenticated, StepLoading},
		{EventLoaded, StepInstructions},
		{EventBegin, StepTest},
		{EventSubmitted, StepResult},
		{EventDismiss, StepAuth},
	}

	for _, s := range steps {
		got, err := m.Apply(s.event)
		if err != nil {
			t.Fatalf("Apply(%s): unexpected error %v", s.event, err)
		}
		if got != s.want {
			t.Fatalf("Apply(%s): expected %s, got %s", s.event, s.want, got)
		}
	}
}

func TestRegisterPath(t *testing.T) {
	m := NewMachine()

	if _, err := m.Apply(EventChooseRegister); err != nil {
		t.Fatalf("choose register: %v", err)
	}
	if m.Current() != StepRegister {
		t.Fatalf("expected %s, got %s", StepRegister, m.Current())
	}
	if _, err := m.Apply(EventAuthenticated); err != nil {
		t.Fatalf("authenticated: %v", err)
	}
	if m.Current() != StepLoading {
		t.Fatalf("expected %s, got %s", StepLoading, m.Current())
	}
}

func TestWindowRouting(t *testing.T) {
	t.Run("LoadingToNotStarted", func(t *testing.T) {
		m := NewMachineAt(StepLoading)
		if _, err := m.Apply(EventWindowNotOpen); err != nil {
			t.Fatalf("window not open: %v", err)
		}
		if m.Current() != StepNotStarted {
			t.Fatalf("expected %s, got %s", StepNotStarted, m.Current())
		}
	})

	t.Run("InstructionsToExpired", func(t *testing.T) {
		m := NewMachineAt(StepInstructions)
		if _, err := m.Apply(EventWindowClosed); err != nil {
			t.Fatalf("window closed: %v", err)
		}
		if m.Current() != StepExpired {
			t.Fatalf("expected %s, got %s", StepExpired, m.Current())
		}
	})
}

func TestIllegalTransitionsRejected(t *testing.T) {
	cases := []struct {
		at    Step
		event Event
	}{
		{StepAuth, EventSubmitted},
		{StepAuth, EventBegin},
		{StepLoading, EventBegin},
		{StepInstructions, EventSubmitted},
		{StepTest, EventBegin},
		{StepResult, EventSubmitted}, // result is immutable, no re-submit
		{StepExpired, EventBegin},
	}

	for _, tc := range cases {
		m := NewMachineAt(tc.at)
		_, err := m.Apply(tc.event)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s on %s: expected ErrInvalidTransition, got %v", tc.event, tc.at, err)
		}
		if m.Current() != tc.at {
			t.Errorf("%s on %s: machine moved to %s", tc.event, tc.at, m.Current())
		}
	}
}

func TestTerminalStepsDismissToAuth(t *testing.T) {
	for _, step := range []Step{StepResult, StepExpired, StepNotStarted} {
		m := NewMachineAt(step)
		if !m.IsTerminal() {
			t.Errorf("%s: expected terminal", step)
		}
		got, err := m.Apply(EventDismiss)
		if err != nil {
			t.Fatalf("%s dismiss: %v", step, err)
		}
		if got != StepAuth {
			t.Errorf("%s dismiss: expected %s, got %s", step, StepAuth, got)
		}
	}
}

func TestCanApply(t *testing.T) {
	m := NewMachineAt(StepTest)
	if !m.CanApply(EventSubmitted) {
		t.Error("expected submit to be legal during test")
	}
	if m.CanApply(EventLoaded) {
		t.Error("expected loaded to be illegal during test")
	}
	if m.Current() != StepTest {
		t.Error("CanApply must not mutate the machine")
	}
}
