package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
)

// ErrNoCorrectOption is returned when a question payload marks no option
// as correct, or marks more than one.
var ErrNoCorrectOption = errors.New("question must have exactly one correct option")

// QuestionService handles question bank business logic.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	testRepo     *repository.TestRepository
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, testRepo *repository.TestRepository) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, testRepo: testRepo}
}

// ListByTest retrieves a test's full question bank, correct answers included.
// Admin use only.
func (s *QuestionService) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Question, error) {
	questions, err := s.questionRepo.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// Add appends one question to a test's bank.
func (s *QuestionService) Add(ctx context.Context, testID uuid.UUID, req *model.AddQuestionRequest) (*model.Question, error) {
	if _, err := s.testRepo.GetByID(ctx, testID); err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}

	question := questionFromRequest(testID, req)
	if err := validateOptions(question.Options); err != nil {
		return nil, err
	}

	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// ReplaceAll swaps a test's entire question bank in one transaction. Already
// started sessions keep grading against their frozen snapshot.
func (s *QuestionService) ReplaceAll(ctx context.Context, testID uuid.UUID, req *model.ReplaceQuestionsRequest) ([]model.Question, error) {
	if _, err := s.testRepo.GetByID(ctx, testID); err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for i := range req.Questions {
		q := questionFromRequest(testID, &req.Questions[i])
		if q.OrderNum == 0 {
			q.OrderNum = i
		}
		if err := validateOptions(q.Options); err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}

	if err := s.questionRepo.ReplaceAll(ctx, testID, questions); err != nil {
		return nil, err
	}
	// Re-read so callers get database-assigned IDs.
	return s.ListByTest(ctx, testID)
}

// Delete removes a single question from a bank.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.questionRepo.Delete(ctx, id)
}

func questionFromRequest(testID uuid.UUID, req *model.AddQuestionRequest) *model.Question {
	return &model.Question{
		TestID:      testID,
		Text:        req.Text,
		Options:     req.Options,
		Category:    req.Category,
		Explanation: req.Explanation,
		OrderNum:    req.OrderNum,
	}
}

func validateOptions(options []model.Option) error {
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return ErrNoCorrectOption
	}
	return nil
}
