package model

import "time"

// College represents a partner college whose students sit entrance tests.
// Batches are named cohorts used to scope tests within a college.
type College struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Batches      []string  `json:"batches"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasBatch reports whether the college defines the named batch.
func (c *College) HasBatch(name string) bool {
	for _, b := range c.Batches {
		if b == name {
			return true
		}
	}
	return false
}

// CreateCollegeRequest is the payload for creating a college.
type CreateCollegeRequest struct {
	Name         string   `json:"name" binding:"required,min=2,max=255"`
	Address      string   `json:"address" binding:"omitempty,max=500"`
	ContactEmail string   `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string   `json:"contact_phone" binding:"omitempty,max=20"`
	Batches      []string `json:"batches" binding:"omitempty,dive,min=1,max=100"`
}

// UpdateCollegeRequest is the payload for updating a college.
type UpdateCollegeRequest struct {
	Name         string   `json:"name" binding:"omitempty,min=2,max=255"`
	Address      string   `json:"address" binding:"omitempty,max=500"`
	ContactEmail string   `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string   `json:"contact_phone" binding:"omitempty,max=20"`
	Batches      []string `json:"batches" binding:"omitempty,dive,min=1,max=100"`
}
