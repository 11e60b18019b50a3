package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalStudents, totalColleges, totalTests, totalInquiries int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM colleges),
			(SELECT COUNT(*) FROM tests),
			(SELECT COUNT(*) FROM inquiries)`,
	).Scan(&totalStudents, &totalColleges, &totalTests, &totalInquiries)
	return
}

// GetSessionStatusCounts retrieves the distribution of test sessions by status.
func (r *DashboardRepository) GetSessionStatusCounts(ctx context.Context) (map[model.SessionStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM test_sessions GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.SessionStatus]int)
	for rows.Next() {
		var status model.SessionStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// GetInquiryStatusCounts retrieves the distribution of inquiries by
// follow-up state.
func (r *DashboardRepository) GetInquiryStatusCounts(ctx context.Context) (map[model.InquiryStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM inquiries GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.InquiryStatus]int)
	for rows.Next() {
		var status model.InquiryStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// DashboardRecentTestResult represents minimal data for recently taken tests,
// averaging completed session results.
type DashboardRecentTestResult struct {
	ID               uuid.UUID  `json:"id"`
	Title            string     `json:"title"`
	CollegeName      string     `json:"college_name"`
	LastFinishedAt   *time.Time `json:"last_finished_at"`
	ParticipantCount int        `json:"participant_count"`
	AveragePercent   *float64   `json:"average_percent"`
	PassCount        int        `json:"pass_count"`
}

// GetRecentTestResults retrieves the last N tests with completed sessions and
// their aggregate outcomes.
func (r *DashboardRepository) GetRecentTestResults(ctx context.Context, limit int) ([]DashboardRecentTestResult, error) {
	query := `
		SELECT
			t.id,
			t.title,
			c.name,
			MAX(s.finished_at) as last_finished,
			COUNT(s.id) as participant_count,
			AVG(s.percentage) as average_percent,
			COUNT(*) FILTER (WHERE s.is_passed) as pass_count
		FROM tests t
		JOIN colleges c ON t.college_id = c.id
		JOIN test_sessions s ON t.id = s.test_id AND s.status = $1
		GROUP BY t.id, t.title, c.name
		ORDER BY last_finished DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, model.SessionStatusCompleted, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DashboardRecentTestResult
	for rows.Next() {
		var res DashboardRecentTestResult
		if err := rows.Scan(&res.ID, &res.Title, &res.CollegeName, &res.LastFinishedAt,
			&res.ParticipantCount, &res.AveragePercent, &res.PassCount); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if results == nil {
		results = []DashboardRecentTestResult{}
	}
	return results, rows.Err()
}

// DashboardRecentInquiry is the trimmed lead row shown on the dashboard.
type DashboardRecentInquiry struct {
	ID        int                 `json:"id"`
	Name      string              `json:"name"`
	Course    string              `json:"course,omitempty"`
	Status    model.InquiryStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// GetRecentInquiries retrieves the newest N inquiries.
func (r *DashboardRepository) GetRecentInquiries(ctx context.Context, limit int) ([]DashboardRecentInquiry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, course, status, created_at
		 FROM inquiries
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inquiries []DashboardRecentInquiry
	for rows.Next() {
		var inq DashboardRecentInquiry
		if err := rows.Scan(&inq.ID, &inq.Name, &inq.Course, &inq.Status, &inq.CreatedAt); err != nil {
			return nil, err
		}
		inquiries = append(inquiries, inq)
	}
	if inquiries == nil {
		inquiries = []DashboardRecentInquiry{}
	}
	return inquiries, rows.Err()
}
