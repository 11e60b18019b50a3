package service

import (
	"math"

	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

// GradeOutcome is the result of grading one session's answer set.
type GradeOutcome struct {
	Score          int
	TotalQuestions int
	Percentage     int
	IsPassed       bool
}

// CountCorrect tallies answers matching the correct option frozen in the
// session snapshot. Unanswered questions count as incorrect.
func CountCorrect(snapshot []model.SessionQuestion) int {
	correct := 0
	for _, sq := range snapshot {
		if sq.SelectedOption != nil && *sq.SelectedOption == sq.CorrectOption {
			correct++
		}
	}
	return correct
}

// Grade computes the final outcome for a session snapshot. The percentage is
// rounded to the nearest integer and compared against the passing score
// inclusively, so a student exactly on the threshold passes.
func Grade(snapshot []model.SessionQuestion, passingScore int) GradeOutcome {
	total := len(snapshot)
	score := CountCorrect(snapshot)

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(score) / float64(total) * 100))
	}

	return GradeOutcome{
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		IsPassed:       percentage >= passingScore,
	}
}
