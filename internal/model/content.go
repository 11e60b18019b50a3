package model

import "time"

// Blog is a marketing/announcement post managed from the admin panel.
type Blog struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"cover_image,omitempty"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CreateBlogRequest is the payload for creating or updating a blog post.
type CreateBlogRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Slug        string `json:"slug" binding:"required,min=3,max=255"`
	Content     string `json:"content" binding:"required,min=1"`
	CoverImage  string `json:"cover_image" binding:"omitempty,max=500"`
	IsPublished bool   `json:"is_published"`
}

// Testimonial is a student/partner quote shown on the public site.
type Testimonial struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role,omitempty"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTestimonialRequest is the payload for creating or updating a testimonial.
type CreateTestimonialRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Role     string `json:"role" binding:"omitempty,max=100"`
	Content  string `json:"content" binding:"required,min=1,max=2000"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	PhotoURL string `json:"photo_url" binding:"omitempty,max=500"`
}

// Teacher is an instructor profile listed on the platform.
type Teacher struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	PhotoURL  string    `json:"photo_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTeacherRequest is the payload for creating or updating a teacher profile.
type CreateTeacherRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Subject  string `json:"subject" binding:"omitempty,max=100"`
	Bio      string `json:"bio" binding:"omitempty,max=2000"`
	PhotoURL string `json:"photo_url" binding:"omitempty,max=500"`
}
