package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
)

// Session state transition errors. The status column only ever moves
// PENDING → ACTIVE → COMPLETED; conditional updates reject anything else.
var (
	ErrSessionNotPending = errors.New("session is not in PENDING state")
	ErrSessionNotActive  = errors.New("session is not in ACTIVE state")
)

// SessionResultRow combines student data with their session outcome for
// admin result listings.
type SessionResultRow struct {
	SessionID   uuid.UUID           `json:"session_id"`
	StudentID   int                 `json:"student_id"`
	StudentName string              `json:"student_name"`
	Email       string              `json:"email"`
	BatchName   string              `json:"batch_name"`
	Status      model.SessionStatus `json:"status"`
	Score       *int                `json:"score"`
	Percentage  *int                `json:"percentage"`
	IsPassed    *bool               `json:"is_passed"`
	StartedAt   *time.Time          `json:"started_at"`
	FinishedAt  *time.Time          `json:"finished_at"`
}

// SessionRepository handles test session data access.
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, test_id, student_id, college_id, batch_name, status, duration_minutes,
	started_at, finished_at, score, percentage, is_passed, violation_count, auto_submitted, created_at`

func scanSession(row interface{ Scan(...any) error }, s *model.TestSession) error {
	return row.Scan(&s.ID, &s.TestID, &s.StudentID, &s.CollegeID, &s.BatchName, &s.Status,
		&s.DurationMinutes, &s.StartedAt, &s.FinishedAt, &s.Score, &s.Percentage,
		&s.IsPassed, &s.ViolationCount, &s.AutoSubmitted, &s.CreatedAt)
}

// GetByID retrieves a session by its UUID.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TestSession, error) {
	s := &model.TestSession{}
	row := r.pool.QueryRow(ctx, `SELECT `+sessionColumns+` FROM test_sessions WHERE id = $1`, id)
	if err := scanSession(row, s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetLatestByTestAndStudent retrieves the most recent session for a
// test-student pair, or pgx.ErrNoRows if none exists.
func (r *SessionRepository) GetLatestByTestAndStudent(ctx context.Context, testID uuid.UUID, studentID int) (*model.TestSession, error) {
	s := &model.TestSession{}
	row := r.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM test_sessions
		 WHERE test_id = $1 AND student_id = $2
		 ORDER BY created_at DESC
		 LIMIT 1`, testID, studentID)
	if err := scanSession(row, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a new PENDING session.
func (r *SessionRepository) Create(ctx context.Context, s *model.TestSession) error {
	s.Status = model.SessionStatusPending
	return r.pool.QueryRow(ctx,
		`INSERT INTO test_sessions (test_id, student_id, college_id, batch_name, status, duration_minutes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		s.TestID, s.StudentID, s.CollegeID, s.BatchName, s.Status, s.DurationMinutes,
	).Scan(&s.ID, &s.CreatedAt)
}

// ActivateWithSnapshot transitions PENDING → ACTIVE, records the start
// timestamp and freezes the selected question subset in one transaction, so
// a crash between the two steps cannot leave an ACTIVE session without a
// paper. Returns ErrSessionNotPending if the session is in any other state.
func (r *SessionRepository) ActivateWithSnapshot(ctx context.Context, id uuid.UUID, questions []model.Question) (time.Time, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer tx.Rollback(ctx)

	var startedAt time.Time
	err = tx.QueryRow(ctx,
		`UPDATE test_sessions
		 SET status = $1, started_at = NOW()
		 WHERE id = $2 AND status = $3
		 RETURNING started_at`,
		model.SessionStatusActive, id, model.SessionStatusPending,
	).Scan(&startedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrSessionNotPending
		}
		return time.Time{}, err
	}

	rows := make([][]interface{}, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		rows = append(rows, []interface{}{id, q.ID, i, q.CorrectOption()})
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"session_questions"},
		[]string{"session_id", "question_id", "order_num", "correct_option"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return time.Time{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return time.Time{}, err
	}
	return startedAt, nil
}

// Complete transitions ACTIVE → COMPLETED with the grading outcome. The
// conditional WHERE makes a second submit (two tabs, replayed request) fail
// with ErrSessionNotActive instead of silently re-scoring.
func (r *SessionRepository) Complete(ctx context.Context, id uuid.UUID, score, percentage int, isPassed, autoSubmitted bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE test_sessions
		 SET status = $1, score = $2, percentage = $3, is_passed = $4,
		     auto_submitted = $5, finished_at = NOW()
		 WHERE id = $6 AND status = $7`,
		model.SessionStatusCompleted, score, percentage, isPassed,
		autoSubmitted, id, model.SessionStatusActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotActive
	}
	return nil
}

// GetSnapshot returns the session's frozen question records in order.
func (r *SessionRepository) GetSnapshot(ctx context.Context, sessionID uuid.UUID) ([]model.SessionQuestion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT session_id, question_id, order_num, correct_option, selected_option, time_spent_seconds
		 FROM session_questions
		 WHERE session_id = $1
		 ORDER BY order_num ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshot []model.SessionQuestion
	for rows.Next() {
		var sq model.SessionQuestion
		if err := rows.Scan(&sq.SessionID, &sq.QuestionID, &sq.OrderNum, &sq.CorrectOption,
			&sq.SelectedOption, &sq.TimeSpentSecs); err != nil {
			return nil, err
		}
		snapshot = append(snapshot, sq)
	}
	return snapshot, rows.Err()
}

// SaveAnswers bulk-writes submitted answers onto the snapshot rows using a
// single UNNEST update.
func (r *SessionRepository) SaveAnswers(ctx context.Context, sessionID uuid.UUID, answers []model.AnswerRecord) error {
	if len(answers) == 0 {
		return nil
	}

	n := len(answers)
	questionIDs := make([]uuid.UUID, 0, n)
	selected := make([]int, 0, n)
	timeSpent := make([]int, 0, n)
	for _, a := range answers {
		questionIDs = append(questionIDs, a.QuestionID)
		selected = append(selected, a.SelectedOption)
		timeSpent = append(timeSpent, a.TimeSpentSecs)
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE session_questions AS sq
		 SET selected_option = t.selected_option,
		     time_spent_seconds = t.time_spent_seconds
		 FROM (
			SELECT u.question_id, u.selected_option, u.time_spent_seconds
			FROM UNNEST($2::uuid[], $3::int[], $4::int[])
				AS u (question_id, selected_option, time_spent_seconds)
		 ) AS t
		 WHERE sq.session_id = $1
		   AND sq.question_id = t.question_id`,
		sessionID, questionIDs, selected, timeSpent)
	return err
}

// UpsertAnswer writes a single autosaved answer onto its snapshot row.
// Used by the autosave worker; answers for questions outside the snapshot
// are ignored.
func (r *SessionRepository) UpsertAnswer(ctx context.Context, sessionID, questionID uuid.UUID, selectedOption int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE session_questions
		 SET selected_option = $3
		 WHERE session_id = $1 AND question_id = $2`,
		sessionID, questionID, selectedOption)
	return err
}

// SetViolationCount records the session's violation counter.
func (r *SessionRepository) SetViolationCount(ctx context.Context, id uuid.UUID, count int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE test_sessions SET violation_count = $1 WHERE id = $2`, count, id)
	return err
}

// ListByStudent retrieves all sessions for a student, newest first.
func (r *SessionRepository) ListByStudent(ctx context.Context, studentID int) ([]model.TestSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM test_sessions
		 WHERE student_id = $1
		 ORDER BY created_at DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.TestSession
	for rows.Next() {
		var s model.TestSession
		if err := scanSession(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ListByTest retrieves paginated result rows for a test with optional
// student name/email search.
func (r *SessionRepository) ListByTest(ctx context.Context, testID uuid.UUID, search string, limit, offset int) ([]SessionResultRow, int, error) {
	baseQuery := `
		FROM test_sessions ts
		JOIN students s ON ts.student_id = s.id
		WHERE ts.test_id = $1
	`
	args := []interface{}{testID}

	if search != "" {
		args = append(args, "%"+search+"%")
		idx := strconv.Itoa(len(args))
		baseQuery += ` AND (s.name ILIKE $` + idx + ` OR s.email ILIKE $` + idx + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) `+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ts.id, s.id, s.name, s.email, ts.batch_name,
		       ts.status, ts.score, ts.percentage, ts.is_passed, ts.started_at, ts.finished_at
		` + baseQuery + `
		ORDER BY s.name ASC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []SessionResultRow
	for rows.Next() {
		var row SessionResultRow
		if err := rows.Scan(&row.SessionID, &row.StudentID, &row.StudentName, &row.Email,
			&row.BatchName, &row.Status, &row.Score, &row.Percentage, &row.IsPassed,
			&row.StartedAt, &row.FinishedAt); err != nil {
			return nil, 0, err
		}
		results = append(results, row)
	}

	return results, total, rows.Err()
}

// ListExpiredActive returns sessions still ACTIVE whose deadline has passed.
// Safety net behind the Redis deadline index in case entries were lost.
func (r *SessionRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]model.TestSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM test_sessions
		 WHERE status = $1
		   AND started_at IS NOT NULL
		   AND started_at + make_interval(mins => duration_minutes) < $2`,
		model.SessionStatusActive, now)
	if err != nil {
		return nil, fmt.Errorf("list expired sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.TestSession
	for rows.Next() {
		var s model.TestSession
		if err := scanSession(rows, &s); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
