package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionAutosave  Action = "autosave"
	ActionViolation Action = "violation"
	ActionSubmit    Action = "submit"
	ActionPing      Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// AutosaveRequest is sent by the client to save a single answer.
type AutosaveRequest struct {
	Action        Action `json:"action"`
	QuestionID    string `json:"question_id"`
	Option        int    `json:"option"`
	TimeSpentSecs int    `json:"time_spent_seconds"`
}

// ViolationRequest is sent by the client to report a proctoring event such as
// a tab switch or a blocked shortcut.
type ViolationRequest struct {
	Action Action `json:"action"`
	Kind   string `json:"kind"`
}

// SubmitRequest is sent by the client to finish and grade the test.
type SubmitRequest struct {
	Action  Action          `json:"action"`
	Answers []SubmitAnswer `json:"answers"`
}

// SubmitAnswer is one answer inside a final submission.
type SubmitAnswer struct {
	QuestionID    string `json:"question_id"`
	Option        int    `json:"option"`
	TimeSpentSecs int    `json:"time_spent_seconds"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError     Event = "error"
	EventSuccess   Event = "success"
	EventGraded    Event = "graded"
	EventViolation Event = "violation_recorded"
	EventPong      Event = "pong"
)

type AutosaveResponse struct {
	Event  Event  `json:"event"`
	Status string `json:"status"`
}

// ViolationResponse acknowledges a proctoring event with the running count
// and how many remain before the session is force-submitted.
type ViolationResponse struct {
	Event     Event `json:"event"`
	Count     int   `json:"count"`
	Remaining int   `json:"remaining"`
}

// GradedResponse delivers the final outcome. ForcedBy is empty for a normal
// submit, "deadline" or "violations" for auto-submits.
type GradedResponse struct {
	Event      Event  `json:"event"`
	Status     string `json:"status"`
	Score      int    `json:"score"`
	Percentage int    `json:"percentage"`
	IsPassed   bool   `json:"is_passed"`
	ForcedBy   string `json:"forced_by,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event            Event   `json:"event"`
	RemainingSeconds float64 `json:"remaining_seconds"`
}
