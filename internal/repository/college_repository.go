package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

var ErrDuplicateCollege = errors.New("college with this name already exists")

// CollegeRepository handles college data access.
type CollegeRepository struct {
	pool *pgxpool.Pool
}

// NewCollegeRepository creates a new CollegeRepository.
func NewCollegeRepository(pool *pgxpool.Pool) *CollegeRepository {
	return &CollegeRepository{pool: pool}
}

// GetByID retrieves a college by ID.
func (r *CollegeRepository) GetByID(ctx context.Context, id int) (*model.College, error) {
	c := &model.College{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, address, contact_email, contact_phone, batches, created_at, updated_at
		 FROM colleges WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Address, &c.ContactEmail, &c.ContactPhone, &c.Batches, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListPaginated retrieves colleges with pagination and optional name search.
func (r *CollegeRepository) ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.College, int, error) {
	countQuery := `SELECT COUNT(*) FROM colleges`
	var countArgs []interface{}
	if search != "" {
		countQuery += ` WHERE name ILIKE $1`
		countArgs = append(countArgs, "%"+search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, address, contact_email, contact_phone, batches, created_at, updated_at FROM colleges`
	var args []interface{}
	argIdx := 1

	if search != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+search+"%")
		argIdx++
	}

	query += ` ORDER BY name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var colleges []model.College
	for rows.Next() {
		var c model.College
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.ContactEmail, &c.ContactPhone, &c.Batches, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		colleges = append(colleges, c)
	}
	return colleges, total, rows.Err()
}

// Create inserts a new college.
func (r *CollegeRepository) Create(ctx context.Context, c *model.College) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO colleges (name, address, contact_email, contact_phone, batches)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Address, c.ContactEmail, c.ContactPhone, c.Batches,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateCollege
		}
		return err
	}
	return nil
}

// Update modifies an existing college.
func (r *CollegeRepository) Update(ctx context.Context, c *model.College) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE colleges SET name = $1, address = $2, contact_email = $3, contact_phone = $4,
		        batches = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		c.Name, c.Address, c.ContactEmail, c.ContactPhone, c.Batches, c.ID)
	return err
}

// Delete removes a college. Tests scoped to the college are removed by the
// ON DELETE CASCADE constraint.
func (r *CollegeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM colleges WHERE id = $1`, id)
	return err
}

// ListTestIDs returns the IDs of all tests belonging to a college, in
// creation order. This is the college's "test list" — a test delete must no
// longer appear here.
func (r *CollegeRepository) ListTestIDs(ctx context.Context, collegeID int) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM tests WHERE college_id = $1 ORDER BY created_at ASC, id ASC`, collegeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
