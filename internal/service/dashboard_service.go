package service

import (
	"context"

	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
)

// DashboardData consolidates all metrics for the admin dashboard.
type DashboardData struct {
	TotalStudents       int                                    `json:"total_students"`
	TotalColleges       int                                    `json:"total_colleges"`
	TotalTests          int                                    `json:"total_tests"`
	TotalInquiries      int                                    `json:"total_inquiries"`
	SessionStatusCounts map[model.SessionStatus]int            `json:"session_status_counts"`
	InquiryStatusCounts map[model.InquiryStatus]int            `json:"inquiry_status_counts"`
	RecentTestResults   []repository.DashboardRecentTestResult `json:"recent_test_results"`
	RecentInquiries     []repository.DashboardRecentInquiry    `json:"recent_inquiries"`
}

// DashboardService handles admin dashboard business logic.
type DashboardService struct {
	repo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// GetDashboardData fetches all dashboard metrics.
func (s *DashboardService) GetDashboardData(ctx context.Context) (*DashboardData, error) {
	students, colleges, tests, inquiries, err := s.repo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	sessionCounts, err := s.repo.GetSessionStatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	inquiryCounts, err := s.repo.GetInquiryStatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	recentResults, err := s.repo.GetRecentTestResults(ctx, 5)
	if err != nil {
		return nil, err
	}

	recentInquiries, err := s.repo.GetRecentInquiries(ctx, 5)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalStudents:       students,
		TotalColleges:       colleges,
		TotalTests:          tests,
		TotalInquiries:      inquiries,
		SessionStatusCounts: sessionCounts,
		InquiryStatusCounts: inquiryCounts,
		RecentTestResults:   recentResults,
		RecentInquiries:     recentInquiries,
	}, nil
}
