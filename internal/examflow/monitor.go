package examflow

import (
	"sync"
)

// DefaultViolationLimit is the number of integrity violations after which a
// session is force-submitted.
const DefaultViolationLimit = 10

// ViolationKind labels a reported integrity event.
type ViolationKind string

const (
	ViolationTabHidden      ViolationKind = "tab_hidden"
	ViolationFocusLost      ViolationKind = "focus_lost"
	ViolationFullscreenExit ViolationKind = "fullscreen_exit"
	ViolationBlockedKey     ViolationKind = "blocked_key"
)

// Monitor counts integrity violations for a single session and triggers the
// force-submit callback once when the limit is reached. The counter lives
// with the session, not in browser storage, so two tabs share one budget.
//
// The keyboard/fullscreen measures this backs are deterrents for the exam
// client to enforce; they are not a security boundary.
type Monitor struct {
	limit   int
	onLimit func()

	mu      sync.Mutex
	count   int
	tripped bool
}

// NewMonitor creates a monitor with the given violation limit. A limit <= 0
// falls back to DefaultViolationLimit. onLimit runs at most once.
func NewMonitor(limit int, onLimit func()) *Monitor {
	if limit <= 0 {
		limit = DefaultViolationLimit
	}
	return &Monitor{limit: limit, onLimit: onLimit}
}

// NewMonitorAt creates a monitor resuming from a previously persisted count
// (page reload, reconnect).
func NewMonitorAt(limit, count int, onLimit func()) *Monitor {
	m := NewMonitor(limit, onLimit)
	m.count = count
	return m
}

// Record registers one violation and returns the running count and whether
// this call tripped the limit. Counting continues past the limit but the
// callback fires only on the tripping call.
func (m *Monitor) Record(kind ViolationKind) (count int, tripped bool) {
	m.mu.Lock()
	m.count++
	count = m.count
	trip := !m.tripped && m.count >= m.limit
	if trip {
		m.tripped = true
	}
	m.mu.Unlock()

	if trip && m.onLimit != nil {
		m.onLimit()
	}
	return count, trip
}

// Count returns the current violation count.
func (m *Monitor) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Tripped reports whether the limit has been reached.
func (m *Monitor) Tripped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tripped
}

// BlockedShortcut is a keyboard combination the exam client must suppress
// during the test step.
type BlockedShortcut struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
}

// blockedShortcuts lists the copy/paste/print/devtools combinations the
// client suppresses. Served to the client with the exam paper.
var blockedShortcuts = []BlockedShortcut{
	{Key: "c", Ctrl: true},
	{Key: "v", Ctrl: true},
	{Key: "x", Ctrl: true},
	{Key: "a", Ctrl: true},
	{Key: "p", Ctrl: true},
	{Key: "s", Ctrl: true},
	{Key: "u", Ctrl: true},
	{Key: "i", Ctrl: true, Shift: true},
	{Key: "j", Ctrl: true, Shift: true},
	{Key: "F12"},
}

// BlockedShortcuts returns the shortcut suppression policy.
func BlockedShortcuts() []BlockedShortcut {
	out := make([]BlockedShortcut, len(blockedShortcuts))
	copy(out, blockedShortcuts)
	return out
}

// IsBlockedShortcut reports whether a key combination is on the suppression
// list.
func IsBlockedShortcut(key string, ctrl, shift bool) bool {
	for _, b := range blockedShortcuts {
		if b.Key == key && b.Ctrl == ctrl && b.Shift == shift {
			return true
		}
	}
	return false
}
