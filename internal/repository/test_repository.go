package repository

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

// TestRepository handles test configuration data access.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

const testColumns = `id, title, college_id, batch_name, duration_minutes, questions_per_test,
	passing_score, allow_retake, has_expiry, start_time, end_time, is_active, created_at, updated_at`

func scanTest(row interface{ Scan(...any) error }, t *model.Test) error {
	return row.Scan(&t.ID, &t.Title, &t.CollegeID, &t.BatchName, &t.DurationMinutes,
		&t.QuestionsPerTest, &t.PassingScore, &t.AllowRetake, &t.HasExpiry,
		&t.StartTime, &t.EndTime, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID retrieves a test by its UUID.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t := &model.Test{}
	row := r.pool.QueryRow(ctx, `SELECT `+testColumns+` FROM tests WHERE id = $1`, id)
	if err := scanTest(row, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListByCollege retrieves tests for one college, or all tests when
// collegeID is nil. Ordering is deterministic (creation time, then id) so
// repeated reads return identical lists.
func (r *TestRepository) ListByCollege(ctx context.Context, collegeID *int) ([]model.Test, error) {
	query := `SELECT ` + testColumns + ` FROM tests`
	var args []interface{}
	if collegeID != nil {
		query += ` WHERE college_id = $1`
		args = append(args, *collegeID)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var t model.Test
		if err := scanTest(rows, &t); err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return tests, rows.Err()
}

// ListPaginated retrieves tests with pagination and optional title search.
func (r *TestRepository) ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.Test, int, error) {
	baseQuery := ``
	var args []interface{}
	if search != "" {
		args = append(args, "%"+search+"%")
		baseQuery = ` WHERE title ILIKE $1`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tests`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + testColumns + ` FROM tests` + baseQuery +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var t model.Test
		if err := scanTest(rows, &t); err != nil {
			return nil, 0, err
		}
		tests = append(tests, t)
	}
	return tests, total, rows.Err()
}

// Create inserts a new test.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO tests (title, college_id, batch_name, duration_minutes, questions_per_test,
		        passing_score, allow_retake, has_expiry, start_time, end_time, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.CollegeID, t.BatchName, t.DurationMinutes, t.QuestionsPerTest,
		t.PassingScore, t.AllowRetake, t.HasExpiry, t.StartTime, t.EndTime, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update modifies an existing test.
func (r *TestRepository) Update(ctx context.Context, t *model.Test) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE tests SET title = $1, batch_name = $2, duration_minutes = $3, questions_per_test = $4,
		        passing_score = $5, allow_retake = $6, has_expiry = $7, start_time = $8, end_time = $9,
		        is_active = $10, updated_at = NOW()
		 WHERE id = $11`,
		t.Title, t.BatchName, t.DurationMinutes, t.QuestionsPerTest,
		t.PassingScore, t.AllowRetake, t.HasExpiry, t.StartTime, t.EndTime,
		t.IsActive, t.ID)
	return err
}

// Delete removes a test. Its questions and sessions cascade.
func (r *TestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM tests WHERE id = $1`, id)
	return err
}
