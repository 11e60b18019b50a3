package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

// TestimonialRepository handles testimonial data access.
type TestimonialRepository struct {
	pool *pgxpool.Pool
}

// NewTestimonialRepository creates a new TestimonialRepository.
func NewTestimonialRepository(pool *pgxpool.Pool) *TestimonialRepository {
	return &TestimonialRepository{pool: pool}
}

// GetByID retrieves a testimonial by ID.
func (r *TestimonialRepository) GetByID(ctx context.Context, id int) (*model.Testimonial, error) {
	t := &model.Testimonial{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, role, content, rating, photo_url, created_at, updated_at
		 FROM testimonials WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Role, &t.Content, &t.Rating, &t.PhotoURL, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List retrieves all testimonials, newest first.
func (r *TestimonialRepository) List(ctx context.Context) ([]model.Testimonial, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, role, content, rating, photo_url, created_at, updated_at
		 FROM testimonials
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var testimonials []model.Testimonial
	for rows.Next() {
		var t model.Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Role, &t.Content, &t.Rating,
			&t.PhotoURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		testimonials = append(testimonials, t)
	}
	return testimonials, rows.Err()
}

// Create inserts a new testimonial.
func (r *TestimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO testimonials (name, role, content, rating, photo_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.Role, t.Content, t.Rating, t.PhotoURL,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update modifies a testimonial.
func (r *TestimonialRepository) Update(ctx context.Context, t *model.Testimonial) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE testimonials
		 SET name = $1, role = $2, content = $3, rating = $4, photo_url = $5, updated_at = NOW()
		 WHERE id = $6`,
		t.Name, t.Role, t.Content, t.Rating, t.PhotoURL, t.ID)
	return err
}

// Delete removes a testimonial.
func (r *TestimonialRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	return err
}
