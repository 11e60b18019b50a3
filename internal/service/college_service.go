package service

import (
	"context"
	"fmt"

	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
)

// CollegeService handles college business logic.
type CollegeService struct {
	collegeRepo *repository.CollegeRepository
}

// NewCollegeService creates a new CollegeService.
func NewCollegeService(collegeRepo *repository.CollegeRepository) *CollegeService {
	return &CollegeService{collegeRepo: collegeRepo}
}

// GetByID retrieves a college by ID.
func (s *CollegeService) GetByID(ctx context.Context, id int) (*model.College, error) {
	return s.collegeRepo.GetByID(ctx, id)
}

// List retrieves colleges with pagination and optional name search.
func (s *CollegeService) List(ctx context.Context, search string, page, limit int) ([]model.College, *response.Pagination, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	colleges, total, err := s.collegeRepo.ListPaginated(ctx, search, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if colleges == nil {
		colleges = []model.College{}
	}

	return colleges, buildPagination(page, limit, total), nil
}

// Create inserts a new college.
func (s *CollegeService) Create(ctx context.Context, college *model.College) error {
	return s.collegeRepo.Create(ctx, college)
}

// Update modifies an existing college.
func (s *CollegeService) Update(ctx context.Context, college *model.College) error {
	return s.collegeRepo.Update(ctx, college)
}

// Delete removes a college along with its tests, question banks and sessions
// through the database cascade chain.
func (s *CollegeService) Delete(ctx context.Context, id int) error {
	if _, err := s.collegeRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get college: %w", err)
	}
	return s.collegeRepo.Delete(ctx, id)
}
