package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

func snapshotWith(correct []int, selected []*int) []model.SessionQuestion {
	snapshot := make([]model.SessionQuestion, len(correct))
	for i := range correct {
		snapshot[i] = model.SessionQuestion{
			QuestionID:     uuid.New(),
			OrderNum:       i,
			CorrectOption:  correct[i],
			SelectedOption: selected[i],
		}
	}
	return snapshot
}

func intPtr(v int) *int { return &v }

func TestCountCorrect(t *testing.T) {
	t.Run("matches selected against frozen answers", func(t *testing.T) {
		snapshot := snapshotWith(
			[]int{0, 1, 2, 3},
			[]*int{intPtr(0), intPtr(1), intPtr(0), intPtr(3)},
		)
		if got := CountCorrect(snapshot); got != 3 {
			t.Errorf("expected 3 correct, got %d", got)
		}
	})

	t.Run("unanswered counts as incorrect", func(t *testing.T) {
		snapshot := snapshotWith(
			[]int{0, 1},
			[]*int{nil, intPtr(1)},
		)
		if got := CountCorrect(snapshot); got != 1 {
			t.Errorf("expected 1 correct, got %d", got)
		}
	})
}

func TestGrade(t *testing.T) {
	t.Run("rounds percentage and passes on the boundary", func(t *testing.T) {
		// 2 of 5 correct is exactly 40%; passing score 40 must pass.
		snapshot := snapshotWith(
			[]int{0, 1, 2, 3, 0},
			[]*int{intPtr(0), intPtr(1), intPtr(0), intPtr(0), intPtr(1)},
		)
		outcome := Grade(snapshot, 40)

		if outcome.Score != 2 {
			t.Errorf("expected score 2, got %d", outcome.Score)
		}
		if outcome.Percentage != 40 {
			t.Errorf("expected 40 percent, got %d", outcome.Percentage)
		}
		if !outcome.IsPassed {
			t.Error("expected a score exactly at the passing threshold to pass")
		}
	})

	t.Run("fails just below the threshold", func(t *testing.T) {
		// 1 of 3 correct is 33%; passing score 34 must fail.
		snapshot := snapshotWith(
			[]int{0, 1, 2},
			[]*int{intPtr(0), nil, nil},
		)
		outcome := Grade(snapshot, 34)

		if outcome.Percentage != 33 {
			t.Errorf("expected 33 percent, got %d", outcome.Percentage)
		}
		if outcome.IsPassed {
			t.Error("expected fail below the passing threshold")
		}
	})

	t.Run("rounds half up", func(t *testing.T) {
		// 1 of 8 correct is 12.5%, rounds to 13.
		selected := make([]*int, 8)
		selected[0] = intPtr(0)
		snapshot := snapshotWith([]int{0, 1, 1, 1, 1, 1, 1, 1}, selected)

		outcome := Grade(snapshot, 50)
		if outcome.Percentage != 13 {
			t.Errorf("expected 13 percent, got %d", outcome.Percentage)
		}
	})

	t.Run("empty snapshot grades to zero", func(t *testing.T) {
		outcome := Grade(nil, 50)
		if outcome.Score != 0 || outcome.Percentage != 0 || outcome.IsPassed {
			t.Errorf("unexpected outcome for empty snapshot: %+v", outcome)
		}
	})

	t.Run("passing score zero always passes", func(t *testing.T) {
		snapshot := snapshotWith([]int{0}, []*int{nil})
		if outcome := Grade(snapshot, 0); !outcome.IsPassed {
			t.Error("expected pass when passing score is 0")
		}
	})
}
