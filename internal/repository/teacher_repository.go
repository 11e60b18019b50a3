package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

var ErrDuplicateTeacherEmail = errors.New("teacher email already exists")

// TeacherRepository handles instructor profile data access.
type TeacherRepository struct {
	pool *pgxpool.Pool
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{pool: pool}
}

// GetByID retrieves a teacher by ID.
func (r *TeacherRepository) GetByID(ctx context.Context, id int) (*model.Teacher, error) {
	t := &model.Teacher{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, subject, bio, photo_url, created_at, updated_at
		 FROM teachers WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Email, &t.Subject, &t.Bio, &t.PhotoURL, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListPaginated retrieves teachers with optional name/subject search.
func (r *TeacherRepository) ListPaginated(ctx context.Context, search string, limit, offset int) ([]model.Teacher, int, error) {
	baseQuery := ` FROM teachers WHERE 1=1`
	args := []interface{}{}

	if search != "" {
		args = append(args, "%"+search+"%")
		idx := strconv.Itoa(len(args))
		baseQuery += ` AND (name ILIKE $` + idx + ` OR subject ILIKE $` + idx + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, email, subject, bio, photo_url, created_at, updated_at` +
		baseQuery + `
		ORDER BY name ASC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var teachers []model.Teacher
	for rows.Next() {
		var t model.Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.Email, &t.Subject, &t.Bio,
			&t.PhotoURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		teachers = append(teachers, t)
	}

	return teachers, total, rows.Err()
}

// Create inserts a new teacher profile.
func (r *TeacherRepository) Create(ctx context.Context, t *model.Teacher) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teachers (name, email, subject, bio, photo_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		t.Name, t.Email, t.Subject, t.Bio, t.PhotoURL,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTeacherEmail
		}
		return err
	}
	return nil
}

// Update modifies a teacher profile.
func (r *TeacherRepository) Update(ctx context.Context, t *model.Teacher) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE teachers
		 SET name = $1, email = $2, subject = $3, bio = $4, photo_url = $5, updated_at = NOW()
		 WHERE id = $6`,
		t.Name, t.Email, t.Subject, t.Bio, t.PhotoURL, t.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTeacherEmail
		}
		return err
	}
	return nil
}

// Delete removes a teacher profile.
func (r *TeacherRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	return err
}
