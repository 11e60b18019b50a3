package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
)

// TestService handles entrance test business logic.
type TestService struct {
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	collegeRepo  *repository.CollegeRepository
}

// NewTestService creates a new TestService.
func NewTestService(testRepo *repository.TestRepository, questionRepo *repository.QuestionRepository, collegeRepo *repository.CollegeRepository) *TestService {
	return &TestService{testRepo: testRepo, questionRepo: questionRepo, collegeRepo: collegeRepo}
}

// GetByID retrieves a test by ID.
func (s *TestService) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	return s.testRepo.GetByID(ctx, id)
}

// PublicTest is the exam entry view of a test: configuration without any
// grading internals, plus the college name and current window state.
type PublicTest struct {
	ID              uuid.UUID         `json:"id"`
	Title           string            `json:"title"`
	CollegeID       int               `json:"college_id"`
	CollegeName     string            `json:"college_name"`
	BatchName       string            `json:"batch_name"`
	DurationMinutes int               `json:"duration_minutes"`
	QuestionCount   int               `json:"question_count"`
	AllowRetake     bool              `json:"allow_retake"`
	StartTime       *time.Time        `json:"start_time,omitempty"`
	EndTime         *time.Time        `json:"end_time,omitempty"`
	WindowState     model.WindowState `json:"window_state"`
}

// ResolveLink validates an exam deep link and returns the entry view of the
// test. The test must be active, belong to the linked college, and the batch
// must be one the college has configured.
func (s *TestService) ResolveLink(ctx context.Context, testID uuid.UUID, collegeID int, batchName string) (*PublicTest, error) {
	test, err := s.testRepo.GetByID(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if !test.IsActive {
		return nil, ErrTestNotActive
	}
	if test.CollegeID != collegeID {
		return nil, ErrWrongCollege
	}

	college, err := s.collegeRepo.GetByID(ctx, collegeID)
	if err != nil {
		return nil, fmt.Errorf("get college: %w", err)
	}
	if !college.HasBatch(batchName) {
		return nil, ErrWrongBatch
	}

	return s.publicView(ctx, test, college.Name)
}

// ListPublic returns the active tests visible on the portal, optionally
// scoped to one college. Ordering is stable across calls.
func (s *TestService) ListPublic(ctx context.Context, collegeID *int) ([]PublicTest, error) {
	tests, err := s.testRepo.ListByCollege(ctx, collegeID)
	if err != nil {
		return nil, err
	}

	collegeNames := make(map[int]string)
	public := make([]PublicTest, 0, len(tests))
	for i := range tests {
		t := &tests[i]
		if !t.IsActive {
			continue
		}

		name, ok := collegeNames[t.CollegeID]
		if !ok {
			college, err := s.collegeRepo.GetByID(ctx, t.CollegeID)
			if err != nil {
				continue
			}
			name = college.Name
			collegeNames[t.CollegeID] = name
		}

		view, err := s.publicView(ctx, t, name)
		if err != nil {
			return nil, err
		}
		public = append(public, *view)
	}
	return public, nil
}

func (s *TestService) publicView(ctx context.Context, test *model.Test, collegeName string) (*PublicTest, error) {
	bankSize, err := s.questionRepo.CountByTest(ctx, test.ID)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	questionCount := test.QuestionsPerTest
	if bankSize < questionCount {
		questionCount = bankSize
	}

	return &PublicTest{
		ID:              test.ID,
		Title:           test.Title,
		CollegeID:       test.CollegeID,
		CollegeName:     collegeName,
		BatchName:       test.BatchName,
		DurationMinutes: test.DurationMinutes,
		QuestionCount:   questionCount,
		AllowRetake:     test.AllowRetake,
		StartTime:       test.StartTime,
		EndTime:         test.EndTime,
		WindowState:     test.WindowStateAt(time.Now()),
	}, nil
}

// List retrieves tests for the admin panel with pagination and title search.
func (s *TestService) List(ctx context.Context, search string, page, limit int) ([]model.Test, *response.Pagination, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	tests, total, err := s.testRepo.ListPaginated(ctx, search, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if tests == nil {
		tests = []model.Test{}
	}

	return tests, buildPagination(page, limit, total), nil
}

// Create inserts a new test after validating the college, its batch and the
// expiry window.
func (s *TestService) Create(ctx context.Context, req *model.CreateTestRequest) (*model.Test, error) {
	college, err := s.collegeRepo.GetByID(ctx, req.CollegeID)
	if err != nil {
		return nil, fmt.Errorf("get college: %w", err)
	}
	if !college.HasBatch(req.BatchName) {
		return nil, ErrWrongBatch
	}

	test := &model.Test{
		Title:            req.Title,
		CollegeID:        req.CollegeID,
		BatchName:        req.BatchName,
		DurationMinutes:  req.DurationMinutes,
		QuestionsPerTest: req.QuestionsPerTest,
		PassingScore:     req.PassingScore,
		AllowRetake:      req.AllowRetake,
		HasExpiry:        req.HasExpiry,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		IsActive:         true,
	}
	if err := test.ValidateWindow(); err != nil {
		return nil, err
	}

	if err := s.testRepo.Create(ctx, test); err != nil {
		return nil, err
	}
	return test, nil
}

// Update applies partial changes to a test, re-validating the expiry window
// on the merged result.
func (s *TestService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateTestRequest) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}

	if req.Title != "" {
		test.Title = req.Title
	}
	if req.BatchName != "" {
		college, err := s.collegeRepo.GetByID(ctx, test.CollegeID)
		if err != nil {
			return nil, fmt.Errorf("get college: %w", err)
		}
		if !college.HasBatch(req.BatchName) {
			return nil, ErrWrongBatch
		}
		test.BatchName = req.BatchName
	}
	if req.DurationMinutes != 0 {
		test.DurationMinutes = req.DurationMinutes
	}
	if req.QuestionsPerTest != 0 {
		test.QuestionsPerTest = req.QuestionsPerTest
	}
	if req.PassingScore != nil {
		test.PassingScore = *req.PassingScore
	}
	if req.AllowRetake != nil {
		test.AllowRetake = *req.AllowRetake
	}
	if req.HasExpiry != nil {
		test.HasExpiry = *req.HasExpiry
	}
	if req.StartTime != nil {
		test.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		test.EndTime = req.EndTime
	}
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}

	if err := test.ValidateWindow(); err != nil {
		return nil, err
	}

	if err := s.testRepo.Update(ctx, test); err != nil {
		return nil, err
	}
	return test, nil
}

// Delete removes a test. Its questions and sessions go with it through the
// database cascade, so the college's test list no longer includes it.
func (s *TestService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.testRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get test: %w", err)
	}
	return s.testRepo.Delete(ctx, id)
}
