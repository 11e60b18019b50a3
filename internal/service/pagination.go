package service

import "github.com/paarshedu/entrance-exam-backend/internal/response"

// clampPage normalizes page/limit query values to sane bounds.
func clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func buildPagination(page, limit, total int) *response.Pagination {
	totalPages := (total + limit - 1) / limit
	return &response.Pagination{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
