package model

import "time"

// Student represents a student user registered through an exam deep link or
// the admin panel.
type Student struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	CollegeID    int       `json:"college_id"`
	BatchName    string    `json:"batch_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentLoginRequest is the payload for student authentication.
type StudentLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// StudentLoginResponse is returned after successful student login.
type StudentLoginResponse struct {
	Token   string  `json:"token"`
	Student Student `json:"student"`
}

// RegisterStudentRequest is the payload for self-registration from an exam
// deep link. College and batch come from the link parameters.
type RegisterStudentRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,min=7,max=20"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
	CollegeID int    `json:"college_id" binding:"required"`
	BatchName string `json:"batch_name" binding:"required,min=1,max=100"`
}

// CreateStudentRequest is the payload for admin-side student creation.
type CreateStudentRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,min=7,max=20"`
	Password  string `json:"password" binding:"required,min=6,max=128"`
	CollegeID int    `json:"college_id" binding:"required"`
	BatchName string `json:"batch_name" binding:"required,min=1,max=100"`
}

// UpdateStudentRequest is the payload for updating an existing student.
type UpdateStudentRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required,min=7,max=20"`
	Password  string `json:"password" binding:"omitempty,min=6,max=128"`
	CollegeID int    `json:"college_id" binding:"required"`
	BatchName string `json:"batch_name" binding:"required,min=1,max=100"`
}
