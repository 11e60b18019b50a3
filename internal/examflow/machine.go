// Package examflow models the entrance-exam taking flow: the step state
// machine the exam client walks through, the authoritative countdown timer,
// and the integrity violation monitor. The WebSocket exam stream owns one
// instance of each per connection.
package examflow

import (
	"errors"
	"fmt"
)

// Step is one named screen/state of the exam flow.
type Step string

const (
	StepAuth         Step = "auth"
	StepLogin        Step = "login"
	StepRegister     Step = "register"
	StepLoading      Step = "loading"
	StepInstructions Step = "instructions"
	StepTest         Step = "test"
	StepResult       Step = "result"
	StepExpired      Step = "expired"
	StepNotStarted   Step = "not-started"
)

// Event drives transitions between steps.
type Event string

const (
	EventChooseLogin    Event = "choose_login"
	EventChooseRegister Event = "choose_register"
	EventAuthenticated  Event = "authenticated"
	EventLoaded         Event = "loaded"
	EventBegin          Event = "begin"
	EventWindowNotOpen  Event = "window_not_open"
	EventWindowClosed   Event = "window_closed"
	EventSubmitted      Event = "submitted"
	EventDismiss        Event = "dismiss"
)

// ErrInvalidTransition is returned when an event is not legal in the
// machine's current step.
var ErrInvalidTransition = errors.New("invalid exam flow transition")

// transitions is the exhaustive step/event table. Events absent for a step
// are illegal.
var transitions = map[Step]map[Event]Step{
	StepAuth: {
		EventChooseLogin:    StepLogin,
		EventChooseRegister: StepRegister,
	},
	StepLogin: {
		EventAuthenticated: StepLoading,
		EventDismiss:       StepAuth,
	},
	StepRegister: {
		EventAuthenticated: StepLoading,
		EventDismiss:       StepAuth,
	},
	StepLoading: {
		EventLoaded:        StepInstructions,
		EventWindowNotOpen: StepNotStarted,
		EventWindowClosed:  StepExpired,
	},
	StepInstructions: {
		EventBegin:         StepTest,
		EventWindowNotOpen: StepNotStarted,
		EventWindowClosed:  StepExpired,
	},
	StepTest: {
		EventSubmitted:    StepResult,
		EventWindowClosed: StepExpired,
	},
	// Terminal steps return to auth on dismissal.
	StepResult: {
		EventDismiss: StepAuth,
	},
	StepExpired: {
		EventDismiss: StepAuth,
	},
	StepNotStarted: {
		EventDismiss: StepAuth,
	},
}

// Machine is a typed step state machine for one exam attempt. It is not
// safe for concurrent use; callers serialize events (the WebSocket read
// loop is single-goroutine by construction).
type Machine struct {
	current Step
}

// NewMachine returns a machine positioned at the auth step.
func NewMachine() *Machine {
	return &Machine{current: StepAuth}
}

// NewMachineAt returns a machine positioned at an arbitrary step. Used when
// resuming a flow whose session already exists (page reload).
func NewMachineAt(step Step) *Machine {
	return &Machine{current: step}
}

// Current returns the machine's current step.
func (m *Machine) Current() Step {
	return m.current
}

// Apply transitions the machine by one event. Illegal events leave the
// machine unchanged and return ErrInvalidTransition.
func (m *Machine) Apply(ev Event) (Step, error) {
	next, ok := transitions[m.current][ev]
	if !ok {
		return m.current, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, m.current)
	}
	m.current = next
	return next, nil
}

// CanApply reports whether an event is legal in the current step without
// mutating the machine.
func (m *Machine) CanApply(ev Event) bool {
	_, ok := transitions[m.current][ev]
	return ok
}

// IsTerminal reports whether the current step is one of the terminal
// screens (result, expired, not-started).
func (m *Machine) IsTerminal() bool {
	switch m.current {
	case StepResult, StepExpired, StepNotStarted:
		return true
	}
	return false
}
