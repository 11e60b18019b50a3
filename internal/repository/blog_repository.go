package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

var ErrDuplicateSlug = errors.New("blog slug already exists")

// BlogRepository handles blog post data access.
type BlogRepository struct {
	pool *pgxpool.Pool
}

// NewBlogRepository creates a new BlogRepository.
func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

// GetByID retrieves a blog post by ID.
func (r *BlogRepository) GetByID(ctx context.Context, id int) (*model.Blog, error) {
	b := &model.Blog{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, slug, content, cover_image, is_published, published_at, created_at, updated_at
		 FROM blogs WHERE id = $1`, id,
	).Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.CoverImage, &b.IsPublished,
		&b.PublishedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// GetBySlug retrieves a published blog post for the public site.
func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	b := &model.Blog{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, slug, content, cover_image, is_published, published_at, created_at, updated_at
		 FROM blogs WHERE slug = $1 AND is_published = TRUE`, slug,
	).Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.CoverImage, &b.IsPublished,
		&b.PublishedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListPaginated retrieves blog posts newest first. When publishedOnly is set,
// drafts are excluded (public listing).
func (r *BlogRepository) ListPaginated(ctx context.Context, publishedOnly bool, search string, limit, offset int) ([]model.Blog, int, error) {
	baseQuery := ` FROM blogs WHERE 1=1`
	args := []interface{}{}

	if publishedOnly {
		baseQuery += ` AND is_published = TRUE`
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		baseQuery += ` AND title ILIKE $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, title, slug, content, cover_image, is_published, published_at, created_at, updated_at` +
		baseQuery + `
		ORDER BY created_at DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var blogs []model.Blog
	for rows.Next() {
		var b model.Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.CoverImage,
			&b.IsPublished, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		blogs = append(blogs, b)
	}

	return blogs, total, rows.Err()
}

// Create inserts a new blog post. Sets published_at when created published.
func (r *BlogRepository) Create(ctx context.Context, b *model.Blog) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO blogs (title, slug, content, cover_image, is_published, published_at)
		 VALUES ($1, $2, $3, $4, $5, CASE WHEN $5 THEN NOW() END)
		 RETURNING id, published_at, created_at, updated_at`,
		b.Title, b.Slug, b.Content, b.CoverImage, b.IsPublished,
	).Scan(&b.ID, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// Update modifies a blog post. published_at is stamped on the first publish
// and kept afterwards.
func (r *BlogRepository) Update(ctx context.Context, b *model.Blog) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE blogs
		 SET title = $1, slug = $2, content = $3, cover_image = $4, is_published = $5,
		     published_at = CASE WHEN $5 AND published_at IS NULL THEN NOW() ELSE published_at END,
		     updated_at = NOW()
		 WHERE id = $6
		 RETURNING published_at, updated_at`,
		b.Title, b.Slug, b.Content, b.CoverImage, b.IsPublished, b.ID,
	).Scan(&b.PublishedAt, &b.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// Delete removes a blog post.
func (r *BlogRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	return err
}
