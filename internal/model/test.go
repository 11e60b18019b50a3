package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrExpiryWindowInvalid is returned when a test's expiry window end does not
// fall strictly after its start.
var ErrExpiryWindowInvalid = errors.New("expiry end time must be strictly after start time")

// WindowState describes where the current time falls relative to a test's
// optional expiry window.
type WindowState string

const (
	WindowOpen       WindowState = "OPEN"
	WindowNotStarted WindowState = "NOT_STARTED"
	WindowClosed     WindowState = "CLOSED"
)

// Test is an entrance test configuration scoped to a college and batch.
type Test struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	CollegeID        int        `json:"college_id"`
	BatchName        string     `json:"batch_name"`
	DurationMinutes  int        `json:"duration_minutes"`
	QuestionsPerTest int        `json:"questions_per_test"`
	PassingScore     int        `json:"passing_score"`
	AllowRetake      bool       `json:"allow_retake"`
	HasExpiry        bool       `json:"has_expiry"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ValidateWindow enforces the expiry invariant: when HasExpiry is set, both
// bounds must be present and EndTime must be strictly after StartTime.
func (t *Test) ValidateWindow() error {
	if !t.HasExpiry {
		return nil
	}
	if t.StartTime == nil || t.EndTime == nil {
		return ErrExpiryWindowInvalid
	}
	if !t.EndTime.After(*t.StartTime) {
		return ErrExpiryWindowInvalid
	}
	return nil
}

// WindowStateAt reports whether the test window is open at the given instant.
// Tests without an expiry window are always open.
func (t *Test) WindowStateAt(now time.Time) WindowState {
	if !t.HasExpiry {
		return WindowOpen
	}
	if t.StartTime != nil && now.Before(*t.StartTime) {
		return WindowNotStarted
	}
	if t.EndTime != nil && now.After(*t.EndTime) {
		return WindowClosed
	}
	return WindowOpen
}

// CreateTestRequest is the payload for creating a new test.
type CreateTestRequest struct {
	Title            string     `json:"title" binding:"required,min=3,max=255"`
	CollegeID        int        `json:"college_id" binding:"required"`
	BatchName        string     `json:"batch_name" binding:"required,min=1,max=100"`
	DurationMinutes  int        `json:"duration_minutes" binding:"required,min=1,max=480"`
	QuestionsPerTest int        `json:"questions_per_test" binding:"required,min=1,max=200"`
	PassingScore     int        `json:"passing_score" binding:"required,min=0,max=100"`
	AllowRetake      bool       `json:"allow_retake"`
	HasExpiry        bool       `json:"has_expiry"`
	StartTime        *time.Time `json:"start_time" binding:"omitempty"`
	EndTime          *time.Time `json:"end_time" binding:"omitempty,gtfield=StartTime"`
}

// UpdateTestRequest is the payload for updating an existing test.
type UpdateTestRequest struct {
	Title            string     `json:"title" binding:"omitempty,min=3,max=255"`
	BatchName        string     `json:"batch_name" binding:"omitempty,min=1,max=100"`
	DurationMinutes  int        `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	QuestionsPerTest int        `json:"questions_per_test" binding:"omitempty,min=1,max=200"`
	PassingScore     *int       `json:"passing_score" binding:"omitempty,min=0,max=100"`
	AllowRetake      *bool      `json:"allow_retake" binding:"omitempty"`
	HasExpiry        *bool      `json:"has_expiry" binding:"omitempty"`
	StartTime        *time.Time `json:"start_time" binding:"omitempty"`
	EndTime          *time.Time `json:"end_time" binding:"omitempty,gtfield=StartTime"`
	IsActive         *bool      `json:"is_active" binding:"omitempty"`
}
