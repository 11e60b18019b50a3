package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates test session states. Transitions are strictly
// monotonic: PENDING → ACTIVE → COMPLETED. Skipping or repeating a state
// is rejected at the storage layer.
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "PENDING"
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusCompleted SessionStatus = "COMPLETED"
)

// TestSession represents one student's attempt at one test, tracked from
// creation through grading. Immutable once COMPLETED.
type TestSession struct {
	ID              uuid.UUID     `json:"id"`
	TestID          uuid.UUID     `json:"test_id"`
	StudentID       int           `json:"student_id"`
	CollegeID       int           `json:"college_id"`
	BatchName       string        `json:"batch_name"`
	Status          SessionStatus `json:"status"`
	DurationMinutes int           `json:"duration_minutes"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	FinishedAt      *time.Time    `json:"finished_at,omitempty"`
	Score           *int          `json:"score,omitempty"`
	Percentage      *int          `json:"percentage,omitempty"`
	IsPassed        *bool         `json:"is_passed,omitempty"`
	ViolationCount  int           `json:"violation_count"`
	AutoSubmitted   bool          `json:"auto_submitted"`
	CreatedAt       time.Time     `json:"created_at"`
}

// SessionQuestion is the snapshot of one question copied into a session when
// it starts. The correct option index is frozen at snapshot time so later
// question-bank edits cannot change a graded result.
type SessionQuestion struct {
	SessionID      uuid.UUID `json:"session_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	OrderNum       int       `json:"order_num"`
	CorrectOption  int       `json:"-"`
	SelectedOption *int      `json:"selected_option,omitempty"`
	TimeSpentSecs  int       `json:"time_spent_seconds"`
}

// AnswerRecord is a single answer in a submission payload.
type AnswerRecord struct {
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedOption int       `json:"selected_option" binding:"min=0"`
	TimeSpentSecs  int       `json:"time_spent_seconds" binding:"min=0"`
}

// CreateSessionRequest is the payload for creating a session from an exam
// deep link (testId + collegeId + batchName identify the test instance).
type CreateSessionRequest struct {
	TestID    uuid.UUID `json:"test_id" binding:"required"`
	CollegeID int       `json:"college_id" binding:"required"`
	BatchName string    `json:"batch_name" binding:"required,min=1,max=100"`
}

// SubmitSessionRequest is the payload for final submission and grading.
type SubmitSessionRequest struct {
	Answers []AnswerRecord `json:"answers" binding:"dive"`
}

// SessionPaper is the question set delivered to the exam client on start,
// with correctness flags stripped.
type SessionPaper struct {
	SessionID       uuid.UUID            `json:"session_id"`
	TestID          uuid.UUID            `json:"test_id"`
	Title           string               `json:"title"`
	DurationMinutes int                  `json:"duration_minutes"`
	Questions       []QuestionForStudent `json:"questions"`
}

// SessionState is returned on page reload so the client can resume: the
// autosaved answers plus the authoritative remaining time.
type SessionState struct {
	SessionID        uuid.UUID         `json:"session_id"`
	Status           SessionStatus     `json:"status"`
	AutosavedAnswers map[string]string `json:"autosaved_answers"`
	RemainingSeconds float64           `json:"remaining_seconds"`
	ViolationCount   int               `json:"violation_count"`
}

// SessionResult is the grading outcome returned after submission.
type SessionResult struct {
	SessionID      uuid.UUID `json:"session_id"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Percentage     int       `json:"percentage"`
	IsPassed       bool      `json:"is_passed"`
	AutoSubmitted  bool      `json:"auto_submitted"`
}
