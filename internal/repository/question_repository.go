package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByTest retrieves all questions for a test ordered by order_num.
func (r *QuestionRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, test_id, text, options, category, explanation, order_num
		 FROM questions WHERE test_id = $1
		 ORDER BY order_num ASC, id ASC`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var optionsJSON []byte
		if err := rows.Scan(&q.ID, &q.TestID, &q.Text, &optionsJSON, &q.Category, &q.Explanation, &q.OrderNum); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for question %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts a single question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (test_id, text, options, category, explanation, order_num)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		q.TestID, q.Text, optionsJSON, q.Category, q.Explanation, q.OrderNum,
	).Scan(&q.ID)
}

// ReplaceAll atomically replaces a test's question set inside one
// transaction: delete then bulk insert via CopyFrom.
func (r *QuestionRepository) ReplaceAll(ctx context.Context, testID uuid.UUID, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE test_id = $1`, testID); err != nil {
		return fmt.Errorf("delete old questions: %w", err)
	}

	rows := make([][]interface{}, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		rows = append(rows, []interface{}{testID, q.Text, optionsJSON, q.Category, q.Explanation, q.OrderNum})
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"questions"},
		[]string{"test_id", "text", "options", "category", "explanation", "order_num"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("bulk insert questions: %w", err)
	}

	return tx.Commit(ctx)
}

// CountByTest returns the number of questions in a test's bank.
func (r *QuestionRepository) CountByTest(ctx context.Context, testID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE test_id = $1`, testID).Scan(&n)
	return n, err
}

// Delete removes a single question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return err
}
