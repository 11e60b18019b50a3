package service

import (
	"context"

	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
)

// ContentService handles the marketing content managed from the admin panel:
// blog posts, testimonials and instructor profiles.
type ContentService struct {
	blogRepo        *repository.BlogRepository
	testimonialRepo *repository.TestimonialRepository
	teacherRepo     *repository.TeacherRepository
}

// NewContentService creates a new ContentService.
func NewContentService(
	blogRepo *repository.BlogRepository,
	testimonialRepo *repository.TestimonialRepository,
	teacherRepo *repository.TeacherRepository,
) *ContentService {
	return &ContentService{
		blogRepo:        blogRepo,
		testimonialRepo: testimonialRepo,
		teacherRepo:     teacherRepo,
	}
}

// GetBlog retrieves a blog post by ID.
func (s *ContentService) GetBlog(ctx context.Context, id int) (*model.Blog, error) {
	return s.blogRepo.GetByID(ctx, id)
}

// GetBlogBySlug retrieves a published blog post for the public site.
func (s *ContentService) GetBlogBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	return s.blogRepo.GetBySlug(ctx, slug)
}

// ListBlogs retrieves blog posts with pagination and title search. Public
// callers only see published posts.
func (s *ContentService) ListBlogs(ctx context.Context, publishedOnly bool, search string, page, limit int) ([]model.Blog, *response.Pagination, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	blogs, total, err := s.blogRepo.ListPaginated(ctx, publishedOnly, search, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if blogs == nil {
		blogs = []model.Blog{}
	}

	return blogs, buildPagination(page, limit, total), nil
}

// CreateBlog inserts a new blog post.
func (s *ContentService) CreateBlog(ctx context.Context, req *model.CreateBlogRequest) (*model.Blog, error) {
	blog := &model.Blog{
		Title:       req.Title,
		Slug:        req.Slug,
		Content:     req.Content,
		CoverImage:  req.CoverImage,
		IsPublished: req.IsPublished,
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// UpdateBlog modifies a blog post.
func (s *ContentService) UpdateBlog(ctx context.Context, id int, req *model.CreateBlogRequest) (*model.Blog, error) {
	blog, err := s.blogRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	blog.Title = req.Title
	blog.Slug = req.Slug
	blog.Content = req.Content
	blog.CoverImage = req.CoverImage
	blog.IsPublished = req.IsPublished

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// DeleteBlog removes a blog post.
func (s *ContentService) DeleteBlog(ctx context.Context, id int) error {
	return s.blogRepo.Delete(ctx, id)
}

// ListTestimonials retrieves all testimonials.
func (s *ContentService) ListTestimonials(ctx context.Context) ([]model.Testimonial, error) {
	testimonials, err := s.testimonialRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if testimonials == nil {
		testimonials = []model.Testimonial{}
	}
	return testimonials, nil
}

// CreateTestimonial inserts a new testimonial.
func (s *ContentService) CreateTestimonial(ctx context.Context, req *model.CreateTestimonialRequest) (*model.Testimonial, error) {
	t := &model.Testimonial{
		Name:     req.Name,
		Role:     req.Role,
		Content:  req.Content,
		Rating:   req.Rating,
		PhotoURL: req.PhotoURL,
	}
	if err := s.testimonialRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTestimonial modifies a testimonial.
func (s *ContentService) UpdateTestimonial(ctx context.Context, id int, req *model.CreateTestimonialRequest) (*model.Testimonial, error) {
	t, err := s.testimonialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = req.Name
	t.Role = req.Role
	t.Content = req.Content
	t.Rating = req.Rating
	t.PhotoURL = req.PhotoURL

	if err := s.testimonialRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTestimonial removes a testimonial.
func (s *ContentService) DeleteTestimonial(ctx context.Context, id int) error {
	return s.testimonialRepo.Delete(ctx, id)
}

// GetTeacher retrieves an instructor profile by ID.
func (s *ContentService) GetTeacher(ctx context.Context, id int) (*model.Teacher, error) {
	return s.teacherRepo.GetByID(ctx, id)
}

// ListTeachers retrieves instructor profiles with pagination and search.
func (s *ContentService) ListTeachers(ctx context.Context, search string, page, limit int) ([]model.Teacher, *response.Pagination, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	teachers, total, err := s.teacherRepo.ListPaginated(ctx, search, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if teachers == nil {
		teachers = []model.Teacher{}
	}

	return teachers, buildPagination(page, limit, total), nil
}

// CreateTeacher inserts a new instructor profile.
func (s *ContentService) CreateTeacher(ctx context.Context, req *model.CreateTeacherRequest) (*model.Teacher, error) {
	t := &model.Teacher{
		Name:     req.Name,
		Email:    req.Email,
		Subject:  req.Subject,
		Bio:      req.Bio,
		PhotoURL: req.PhotoURL,
	}
	if err := s.teacherRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTeacher modifies an instructor profile.
func (s *ContentService) UpdateTeacher(ctx context.Context, id int, req *model.CreateTeacherRequest) (*model.Teacher, error) {
	t, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = req.Name
	t.Email = req.Email
	t.Subject = req.Subject
	t.Bio = req.Bio
	t.PhotoURL = req.PhotoURL

	if err := s.teacherRepo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// DeleteTeacher removes an instructor profile.
func (s *ContentService) DeleteTeacher(ctx context.Context, id int) error {
	return s.teacherRepo.Delete(ctx, id)
}
