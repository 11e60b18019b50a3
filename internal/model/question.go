package model

import (
	"github.com/google/uuid"
)

// Option is a single answer choice within a question.
type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question represents a single test question with its answer options.
type Question struct {
	ID          uuid.UUID `json:"id"`
	TestID      uuid.UUID `json:"test_id"`
	Text        string    `json:"text"`
	Options     []Option  `json:"options"`
	Category    string    `json:"category"`
	Explanation string    `json:"explanation,omitempty"`
	OrderNum    int       `json:"order_num"`
}

// CorrectOption returns the index of the correct option, or -1 if none is marked.
func (q *Question) CorrectOption() int {
	for i, opt := range q.Options {
		if opt.IsCorrect {
			return i
		}
	}
	return -1
}

// QuestionForStudent is a question with correctness flags stripped, safe to
// send to an exam client.
type QuestionForStudent struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Options  []string  `json:"options"`
	Category string    `json:"category"`
	OrderNum int       `json:"order_num"`
}

// ForStudent strips correctness flags and the explanation from a question.
func (q *Question) ForStudent() QuestionForStudent {
	options := make([]string, len(q.Options))
	for i, opt := range q.Options {
		options[i] = opt.Text
	}
	return QuestionForStudent{
		ID:       q.ID,
		Text:     q.Text,
		Options:  options,
		Category: q.Category,
		OrderNum: q.OrderNum,
	}
}

// AddQuestionRequest is the payload for adding a question to a test.
type AddQuestionRequest struct {
	Text        string   `json:"text" binding:"required,min=1,max=2000"`
	Options     []Option `json:"options" binding:"required,min=2,max=10,dive"`
	Category    string   `json:"category" binding:"omitempty,max=100"`
	Explanation string   `json:"explanation" binding:"omitempty,max=2000"`
	OrderNum    int      `json:"order_num" binding:"min=0"`
}

// ReplaceQuestionsRequest is the payload for bulk replacing a test's questions.
type ReplaceQuestionsRequest struct {
	Questions []AddQuestionRequest `json:"questions" binding:"dive"`
}
