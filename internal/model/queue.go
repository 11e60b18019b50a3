package model

import (
	"time"

	"github.com/google/uuid"
)

// PersistAnswerPayload is the queue item flushed by the autosave worker onto
// the session snapshot rows.
type PersistAnswerPayload struct {
	SessionID      uuid.UUID `json:"session_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption int       `json:"selected_option"`
	TimeSpentSecs  int       `json:"time_spent_seconds"`
}

// PersistViolationPayload is the queue item flushed by the violation worker
// into the session violation log.
type PersistViolationPayload struct {
	SessionID  uuid.UUID `json:"session_id"`
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
}
