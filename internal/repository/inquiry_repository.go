package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

// InquiryRepository handles inquiry (lead) data access.
type InquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository creates a new InquiryRepository.
func NewInquiryRepository(pool *pgxpool.Pool) *InquiryRepository {
	return &InquiryRepository{pool: pool}
}

// Create inserts a new inquiry in NEW state.
func (r *InquiryRepository) Create(ctx context.Context, inq *model.Inquiry) error {
	inq.Status = model.InquiryStatusNew
	return r.pool.QueryRow(ctx,
		`INSERT INTO inquiries (name, email, phone, course, message, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		inq.Name, inq.Email, inq.Phone, inq.Course, inq.Message, inq.Status,
	).Scan(&inq.ID, &inq.CreatedAt, &inq.UpdatedAt)
}

// GetByID retrieves an inquiry by ID.
func (r *InquiryRepository) GetByID(ctx context.Context, id int) (*model.Inquiry, error) {
	inq := &model.Inquiry{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, phone, course, message, status, created_at, updated_at
		 FROM inquiries WHERE id = $1`, id,
	).Scan(&inq.ID, &inq.Name, &inq.Email, &inq.Phone, &inq.Course, &inq.Message,
		&inq.Status, &inq.CreatedAt, &inq.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inq, nil
}

// ListPaginated retrieves inquiries newest first, with optional status filter
// and name/email search.
func (r *InquiryRepository) ListPaginated(ctx context.Context, status model.InquiryStatus, search string, limit, offset int) ([]model.Inquiry, int, error) {
	baseQuery := ` FROM inquiries WHERE 1=1`
	args := []interface{}{}

	if status != "" {
		args = append(args, status)
		baseQuery += ` AND status = $` + strconv.Itoa(len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		idx := strconv.Itoa(len(args))
		baseQuery += ` AND (name ILIKE $` + idx + ` OR email ILIKE $` + idx + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, email, phone, course, message, status, created_at, updated_at` +
		baseQuery + `
		ORDER BY created_at DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var inquiries []model.Inquiry
	for rows.Next() {
		var inq model.Inquiry
		if err := rows.Scan(&inq.ID, &inq.Name, &inq.Email, &inq.Phone, &inq.Course,
			&inq.Message, &inq.Status, &inq.CreatedAt, &inq.UpdatedAt); err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, inq)
	}

	return inquiries, total, rows.Err()
}

// UpdateStatus moves an inquiry to a new follow-up state.
func (r *InquiryRepository) UpdateStatus(ctx context.Context, id int, status model.InquiryStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE inquiries SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	return err
}

// Delete removes an inquiry.
func (r *InquiryRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	return err
}
