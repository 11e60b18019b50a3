package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

func bankOf(n int) []model.Question {
	bank := make([]model.Question, n)
	for i := range bank {
		bank[i] = model.Question{ID: uuid.New(), OrderNum: i + 1}
	}
	return bank
}

func TestSelectQuestions(t *testing.T) {
	t.Run("truncates to requested size", func(t *testing.T) {
		picked := selectQuestions(bankOf(20), 10)
		if len(picked) != 10 {
			t.Fatalf("expected 10 questions, got %d", len(picked))
		}
	})

	t.Run("returns whole bank when it is smaller than requested", func(t *testing.T) {
		picked := selectQuestions(bankOf(3), 10)
		if len(picked) != 3 {
			t.Fatalf("expected 3 questions, got %d", len(picked))
		}
	})

	t.Run("never picks the same question twice", func(t *testing.T) {
		picked := selectQuestions(bankOf(50), 25)
		seen := make(map[uuid.UUID]bool, len(picked))
		for _, q := range picked {
			if seen[q.ID] {
				t.Fatalf("question %s selected twice", q.ID)
			}
			seen[q.ID] = true
		}
	})

	t.Run("does not mutate the source bank", func(t *testing.T) {
		bank := bankOf(10)
		first := bank[0].ID
		selectQuestions(bank, 5)
		if bank[0].ID != first {
			t.Fatal("source bank was reordered")
		}
	})
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"defaults applied", 0, 0, 1, 10},
		{"negative page floors to one", -3, 20, 1, 20},
		{"limit capped at hundred", 2, 500, 2, 100},
		{"valid values pass through", 4, 25, 4, 25},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, limit := clampPage(tc.page, tc.limit)
			if page != tc.wantPage || limit != tc.wantLimit {
				t.Errorf("clampPage(%d, %d) = (%d, %d), want (%d, %d)",
					tc.page, tc.limit, page, limit, tc.wantPage, tc.wantLimit)
			}
		})
	}
}

func TestBuildPagination(t *testing.T) {
	p := buildPagination(2, 10, 45)
	if p.TotalPages != 5 {
		t.Errorf("expected 5 total pages, got %d", p.TotalPages)
	}
	if p.TotalItems != 45 {
		t.Errorf("expected 45 total items, got %d", p.TotalItems)
	}

	empty := buildPagination(1, 10, 0)
	if empty.TotalPages != 0 {
		t.Errorf("expected 0 total pages for empty set, got %d", empty.TotalPages)
	}
}
