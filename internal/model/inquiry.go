package model

import "time"

// InquiryStatus tracks the follow-up state of a lead.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "NEW"
	InquiryStatusContacted InquiryStatus = "CONTACTED"
	InquiryStatusClosed    InquiryStatus = "CLOSED"
)

// Inquiry is a course inquiry / sales lead captured from the public site.
type Inquiry struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Course    string        `json:"course,omitempty"`
	Message   string        `json:"message,omitempty"`
	Status    InquiryStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CreateInquiryRequest is the payload for submitting an inquiry.
type CreateInquiryRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"required,min=7,max=20"`
	Course  string `json:"course" binding:"omitempty,max=255"`
	Message string `json:"message" binding:"omitempty,max=2000"`
}

// UpdateInquiryStatusRequest is the payload for moving a lead through its
// follow-up states.
type UpdateInquiryStatusRequest struct {
	Status InquiryStatus `json:"status" binding:"required,oneof=NEW CONTACTED CLOSED"`
}
