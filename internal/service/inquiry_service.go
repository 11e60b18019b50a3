package service

import (
	"context"

	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
)

// InquiryService handles sales lead business logic.
type InquiryService struct {
	inquiryRepo *repository.InquiryRepository
}

// NewInquiryService creates a new InquiryService.
func NewInquiryService(inquiryRepo *repository.InquiryRepository) *InquiryService {
	return &InquiryService{inquiryRepo: inquiryRepo}
}

// Submit records a new inquiry from the public site.
func (s *InquiryService) Submit(ctx context.Context, req *model.CreateInquiryRequest) (*model.Inquiry, error) {
	inquiry := &model.Inquiry{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Course:  req.Course,
		Message: req.Message,
	}
	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}

// GetByID retrieves an inquiry by ID.
func (s *InquiryService) GetByID(ctx context.Context, id int) (*model.Inquiry, error) {
	return s.inquiryRepo.GetByID(ctx, id)
}

// List retrieves inquiries with pagination, optional status filter and search.
func (s *InquiryService) List(ctx context.Context, status model.InquiryStatus, search string, page, limit int) ([]model.Inquiry, *response.Pagination, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	inquiries, total, err := s.inquiryRepo.ListPaginated(ctx, status, search, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if inquiries == nil {
		inquiries = []model.Inquiry{}
	}

	return inquiries, buildPagination(page, limit, total), nil
}

// UpdateStatus moves a lead through its follow-up states.
func (s *InquiryService) UpdateStatus(ctx context.Context, id int, status model.InquiryStatus) (*model.Inquiry, error) {
	if err := s.inquiryRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.inquiryRepo.GetByID(ctx, id)
}

// Delete removes an inquiry.
func (s *InquiryService) Delete(ctx context.Context, id int) error {
	return s.inquiryRepo.Delete(ctx, id)
}
