package service

import (
	"context"
	"fmt"

	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
)

// StudentService handles student business logic.
type StudentService struct {
	studentRepo *repository.StudentRepository
	collegeRepo *repository.CollegeRepository
	auth        *AuthService
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository, collegeRepo *repository.CollegeRepository, auth *AuthService) *StudentService {
	return &StudentService{studentRepo: studentRepo, collegeRepo: collegeRepo, auth: auth}
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.studentRepo.GetByID(ctx, id)
}

// GetByEmail retrieves a student by email.
func (s *StudentService) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	return s.studentRepo.GetByEmail(ctx, email)
}

// List retrieves students with pagination, optional college filter and
// name/email search.
func (s *StudentService) List(ctx context.Context, collegeID *int, search string, page, limit int) ([]model.Student, *response.Pagination, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	students, total, err := s.studentRepo.ListPaginated(ctx, collegeID, search, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if students == nil {
		students = []model.Student{}
	}

	return students, buildPagination(page, limit, total), nil
}

// Register creates a student from deep-link self-registration. The batch must
// be one configured for the college.
func (s *StudentService) Register(ctx context.Context, req *model.RegisterStudentRequest) (*model.Student, error) {
	college, err := s.collegeRepo.GetByID(ctx, req.CollegeID)
	if err != nil {
		return nil, fmt.Errorf("get college: %w", err)
	}
	if !college.HasBatch(req.BatchName) {
		return nil, ErrWrongBatch
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		CollegeID:    req.CollegeID,
		BatchName:    req.BatchName,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Create inserts a new student from the admin panel.
func (s *StudentService) Create(ctx context.Context, req *model.CreateStudentRequest) (*model.Student, error) {
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	student := &model.Student{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		CollegeID:    req.CollegeID,
		BatchName:    req.BatchName,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Update modifies a student's details, rehashing the password when provided.
func (s *StudentService) Update(ctx context.Context, id int, req *model.UpdateStudentRequest) (*model.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	student.Name = req.Name
	student.Email = req.Email
	student.Phone = req.Phone
	student.CollegeID = req.CollegeID
	student.BatchName = req.BatchName

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.studentRepo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
	}

	return student, nil
}

// Delete removes a student by ID.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	return s.studentRepo.Delete(ctx, id)
}
