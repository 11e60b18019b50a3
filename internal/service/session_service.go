package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paarshedu/entrance-exam-backend/internal/config"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Session business errors, mapped to response codes at the handler layer.
var (
	ErrTestNotActive        = errors.New("test is not active")
	ErrTestWindowNotStarted = errors.New("test window has not started")
	ErrTestWindowClosed     = errors.New("test window has closed")
	ErrWrongCollege         = errors.New("test does not belong to this college")
	ErrWrongBatch           = errors.New("batch is not configured for this college")
	ErrNoQuestions          = errors.New("test has no questions")
	ErrRetakeNotAllowed     = errors.New("test was already submitted and retakes are disabled")
	ErrSessionNotOwned      = errors.New("session does not belong to this student")
	ErrAlreadySubmitted     = errors.New("session was already submitted")
	ErrSessionNotGraded     = errors.New("session has not been graded yet")
)

// SessionService handles the test session lifecycle: creation, question
// snapshotting, live state, grading and submission.
type SessionService struct {
	sessionRepo  *repository.SessionRepository
	testRepo     *repository.TestRepository
	questionRepo *repository.QuestionRepository
	collegeRepo  *repository.CollegeRepository
	rdb          *redis.Client
	cfg          *config.Config
	log          zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	sessionRepo *repository.SessionRepository,
	testRepo *repository.TestRepository,
	questionRepo *repository.QuestionRepository,
	collegeRepo *repository.CollegeRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo:  sessionRepo,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		collegeRepo:  collegeRepo,
		rdb:          rdb,
		cfg:          cfg,
		log:          log.With().Str("component", "session_service").Logger(),
	}
}

// Create validates a deep-link entry and returns a session for the student.
// Re-invoking with the same test returns the existing non-completed session;
// a completed session yields a fresh one only when the test allows retakes.
func (s *SessionService) Create(ctx context.Context, studentID int, req *model.CreateSessionRequest) (*model.TestSession, error) {
	test, err := s.testRepo.GetByID(ctx, req.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}

	if !test.IsActive {
		return nil, ErrTestNotActive
	}
	if test.CollegeID != req.CollegeID {
		return nil, ErrWrongCollege
	}

	switch test.WindowStateAt(time.Now()) {
	case model.WindowNotStarted:
		return nil, ErrTestWindowNotStarted
	case model.WindowClosed:
		return nil, ErrTestWindowClosed
	}

	college, err := s.collegeRepo.GetByID(ctx, req.CollegeID)
	if err != nil {
		return nil, fmt.Errorf("get college: %w", err)
	}
	if !college.HasBatch(req.BatchName) {
		return nil, ErrWrongBatch
	}

	existing, err := s.sessionRepo.GetLatestByTestAndStudent(ctx, req.TestID, studentID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check existing session: %w", err)
	}

	if existing != nil {
		if existing.Status != model.SessionStatusCompleted {
			return existing, nil
		}
		if !test.AllowRetake {
			return nil, ErrRetakeNotAllowed
		}
	}

	session := &model.TestSession{
		TestID:          test.ID,
		StudentID:       studentID,
		CollegeID:       test.CollegeID,
		BatchName:       req.BatchName,
		DurationMinutes: test.DurationMinutes,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Start activates a PENDING session: a random subset of the question bank is
// frozen into the session and the countdown deadline is registered. Calling
// Start on an already ACTIVE session re-delivers the same frozen paper.
func (s *SessionService) Start(ctx context.Context, sessionID uuid.UUID, studentID int) (*model.SessionPaper, error) {
	session, err := s.getOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case model.SessionStatusCompleted:
		return nil, ErrAlreadySubmitted
	case model.SessionStatusActive:
		return s.buildPaper(ctx, session)
	}

	test, err := s.testRepo.GetByID(ctx, session.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if state := test.WindowStateAt(time.Now()); state == model.WindowClosed {
		return nil, ErrTestWindowClosed
	}

	bank, err := s.questionRepo.ListByTest(ctx, session.TestID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(bank) == 0 {
		return nil, ErrNoQuestions
	}

	selected := selectQuestions(bank, test.QuestionsPerTest)

	startedAt, err := s.sessionRepo.ActivateWithSnapshot(ctx, sessionID, selected)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotPending) {
			// Concurrent start from another tab won the race; re-deliver.
			refreshed, refErr := s.sessionRepo.GetByID(ctx, sessionID)
			if refErr != nil {
				return nil, fmt.Errorf("refetch session: %w", refErr)
			}
			if refreshed.Status == model.SessionStatusCompleted {
				return nil, ErrAlreadySubmitted
			}
			return s.buildPaper(ctx, refreshed)
		}
		return nil, fmt.Errorf("activate session: %w", err)
	}

	deadline := startedAt.Add(time.Duration(session.DurationMinutes) * time.Minute)
	s.registerDeadline(ctx, sessionID, deadline)

	questions := make([]model.QuestionForStudent, 0, len(selected))
	for i := range selected {
		questions = append(questions, selected[i].ForStudent())
	}

	return &model.SessionPaper{
		SessionID:       sessionID,
		TestID:          test.ID,
		Title:           test.Title,
		DurationMinutes: session.DurationMinutes,
		Questions:       questions,
	}, nil
}

// selectQuestions picks up to n random questions from the bank. When the
// bank is smaller than n, every question is used.
func selectQuestions(bank []model.Question, n int) []model.Question {
	shuffled := make([]model.Question, len(bank))
	copy(shuffled, bank)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n > 0 && n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// buildPaper re-delivers the frozen question set of an ACTIVE session.
func (s *SessionService) buildPaper(ctx context.Context, session *model.TestSession) (*model.SessionPaper, error) {
	test, err := s.testRepo.GetByID(ctx, session.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}

	snapshot, err := s.sessionRepo.GetSnapshot(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	bank, err := s.questionRepo.ListByTest(ctx, session.TestID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	bankByID := make(map[uuid.UUID]*model.Question, len(bank))
	for i := range bank {
		bankByID[bank[i].ID] = &bank[i]
	}

	questions := make([]model.QuestionForStudent, 0, len(snapshot))
	for _, sq := range snapshot {
		if q, ok := bankByID[sq.QuestionID]; ok {
			questions = append(questions, q.ForStudent())
		}
	}

	return &model.SessionPaper{
		SessionID:       session.ID,
		TestID:          test.ID,
		Title:           test.Title,
		DurationMinutes: session.DurationMinutes,
		Questions:       questions,
	}, nil
}

// GetState returns the resume state for an ACTIVE session: autosaved answers,
// the authoritative remaining time and the violation count.
func (s *SessionService) GetState(ctx context.Context, sessionID uuid.UUID, studentID int) (*model.SessionState, error) {
	session, err := s.getOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}

	answers, err := s.rdb.HGetAll(ctx, config.CacheKey.SessionAnswersKey(sessionID.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("get autosaved answers: %w", err)
	}

	remaining := 0.0
	if session.Status == model.SessionStatusActive {
		deadline, err := s.deadlineFor(ctx, session)
		if err != nil {
			return nil, err
		}
		if until := time.Until(deadline); until > 0 {
			remaining = until.Seconds()
		}
	}

	violations := session.ViolationCount
	if raw, err := s.rdb.Get(ctx, config.CacheKey.SessionViolationsKey(sessionID.String())).Result(); err == nil {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			violations = n
		}
	}

	return &model.SessionState{
		SessionID:        sessionID,
		Status:           session.Status,
		AutosavedAnswers: answers,
		RemainingSeconds: remaining,
		ViolationCount:   violations,
	}, nil
}

// deadlineFor resolves the session deadline, preferring Redis and falling
// back to the database start timestamp, self-healing the cache on a miss.
func (s *SessionService) deadlineFor(ctx context.Context, session *model.TestSession) (time.Time, error) {
	key := config.CacheKey.SessionDeadlineKey(session.ID.String())

	val, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		unix, parseErr := strconv.ParseInt(val, 10, 64)
		if parseErr == nil {
			return time.Unix(unix, 0), nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return time.Time{}, fmt.Errorf("get deadline: %w", err)
	}

	if session.StartedAt == nil {
		return time.Time{}, errors.New("session has no start time")
	}
	deadline := session.StartedAt.Add(time.Duration(session.DurationMinutes) * time.Minute)
	s.registerDeadline(ctx, session.ID, deadline)
	return deadline, nil
}

func (s *SessionService) registerDeadline(ctx context.Context, sessionID uuid.UUID, deadline time.Time) {
	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, config.CacheKey.SessionDeadlineKey(sessionID.String()), deadline.Unix(), 0)
	pipe.ZAdd(ctx, config.WorkerKey.SessionDeadlineIndex, redis.Z{
		Score:  float64(deadline.Unix()),
		Member: sessionID.String(),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		// The database fallback in deadlineFor and the expired-session sweep
		// still cover this session.
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Failed to register deadline")
	}
}

// Autosave records one answer in the session's live state and queues it for
// durable persistence.
func (s *SessionService) Autosave(ctx context.Context, sessionID uuid.UUID, studentID int, answer model.AnswerRecord) error {
	session, err := s.getOwned(ctx, sessionID, studentID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionStatusActive {
		return ErrAlreadySubmitted
	}

	key := config.CacheKey.SessionAnswersKey(sessionID.String())
	if err := s.rdb.HSet(ctx, key, answer.QuestionID.String(), answer.SelectedOption).Err(); err != nil {
		return fmt.Errorf("autosave answer: %w", err)
	}
	if answer.TimeSpentSecs > 0 {
		timeKey := config.CacheKey.SessionTimeSpentKey(sessionID.String())
		s.rdb.HSet(ctx, timeKey, answer.QuestionID.String(), answer.TimeSpentSecs)
	}

	payload, err := json.Marshal(model.PersistAnswerPayload{
		SessionID:      sessionID,
		QuestionID:     answer.QuestionID,
		SelectedOption: answer.SelectedOption,
		TimeSpentSecs:  answer.TimeSpentSecs,
	})
	if err != nil {
		return fmt.Errorf("marshal answer payload: %w", err)
	}
	return s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload).Err()
}

// RecordViolation increments the session's proctoring counter and queues the
// event for persistence. Returns the new count and whether the configured
// limit has been reached, at which point the caller force-submits.
func (s *SessionService) RecordViolation(ctx context.Context, sessionID uuid.UUID, studentID int, kind string) (int, bool, error) {
	session, err := s.getOwned(ctx, sessionID, studentID)
	if err != nil {
		return 0, false, err
	}
	if session.Status != model.SessionStatusActive {
		return session.ViolationCount, false, ErrAlreadySubmitted
	}

	count, err := s.rdb.Incr(ctx, config.CacheKey.SessionViolationsKey(sessionID.String())).Result()
	if err != nil {
		return 0, false, fmt.Errorf("increment violations: %w", err)
	}

	payload, err := json.Marshal(model.PersistViolationPayload{
		SessionID:  sessionID,
		Kind:       kind,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return int(count), false, fmt.Errorf("marshal violation payload: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistViolationsQueue, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Failed to queue violation")
	}

	return int(count), int(count) >= s.cfg.ViolationLimit, nil
}

// Submit grades an ACTIVE session and finalizes it. Answers in the payload
// take precedence over autosaved ones; a second submit for the same session
// returns ErrAlreadySubmitted.
func (s *SessionService) Submit(ctx context.Context, sessionID uuid.UUID, studentID int, answers []model.AnswerRecord) (*model.SessionResult, error) {
	session, err := s.getOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	return s.finalize(ctx, session, answers, false)
}

// ForceSubmit grades a session using only its autosaved answers. Used by the
// deadline worker and the live exam stream when time runs out or the
// violation limit trips. Already-completed sessions are a no-op.
func (s *SessionService) ForceSubmit(ctx context.Context, sessionID uuid.UUID) (*model.SessionResult, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Status != model.SessionStatusActive {
		return nil, ErrAlreadySubmitted
	}
	return s.finalize(ctx, session, nil, true)
}

func (s *SessionService) finalize(ctx context.Context, session *model.TestSession, answers []model.AnswerRecord, autoSubmitted bool) (*model.SessionResult, error) {
	snapshot, err := s.sessionRepo.GetSnapshot(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	merged := s.mergeAnswers(ctx, session.ID, snapshot, answers)

	test, err := s.testRepo.GetByID(ctx, session.TestID)
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}

	outcome := Grade(merged, test.PassingScore)

	if err := s.sessionRepo.Complete(ctx, session.ID, outcome.Score, outcome.Percentage, outcome.IsPassed, autoSubmitted); err != nil {
		if errors.Is(err, repository.ErrSessionNotActive) {
			return nil, ErrAlreadySubmitted
		}
		return nil, fmt.Errorf("complete session: %w", err)
	}

	if err := s.sessionRepo.SaveAnswers(ctx, session.ID, answerRecords(merged)); err != nil {
		s.log.Error().Err(err).Str("session_id", session.ID.String()).Msg("Failed to persist final answers")
	}

	violations := session.ViolationCount
	if raw, err := s.rdb.Get(ctx, config.CacheKey.SessionViolationsKey(session.ID.String())).Result(); err == nil {
		if n, convErr := strconv.Atoi(raw); convErr == nil && n > violations {
			violations = n
		}
	}
	if violations > 0 {
		if err := s.sessionRepo.SetViolationCount(ctx, session.ID, violations); err != nil {
			s.log.Error().Err(err).Str("session_id", session.ID.String()).Msg("Failed to persist violation count")
		}
	}

	s.cleanupSession(ctx, session.ID)

	s.log.Info().
		Str("session_id", session.ID.String()).
		Int("score", outcome.Score).
		Int("percentage", outcome.Percentage).
		Bool("is_passed", outcome.IsPassed).
		Bool("auto_submitted", autoSubmitted).
		Msg("Session graded")

	return &model.SessionResult{
		SessionID:      session.ID,
		Score:          outcome.Score,
		TotalQuestions: outcome.TotalQuestions,
		Percentage:     outcome.Percentage,
		IsPassed:       outcome.IsPassed,
		AutoSubmitted:  autoSubmitted,
	}, nil
}

// mergeAnswers overlays autosaved answers from Redis, then explicitly
// submitted answers, onto the frozen snapshot. Answers for questions outside
// the snapshot are discarded.
func (s *SessionService) mergeAnswers(ctx context.Context, sessionID uuid.UUID, snapshot []model.SessionQuestion, submitted []model.AnswerRecord) []model.SessionQuestion {
	byID := make(map[uuid.UUID]*model.SessionQuestion, len(snapshot))
	for i := range snapshot {
		byID[snapshot[i].QuestionID] = &snapshot[i]
	}

	autosaved, err := s.rdb.HGetAll(ctx, config.CacheKey.SessionAnswersKey(sessionID.String())).Result()
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", sessionID.String()).Msg("Failed to load autosaved answers")
	}
	for qidStr, optStr := range autosaved {
		qid, parseErr := uuid.Parse(qidStr)
		if parseErr != nil {
			continue
		}
		opt, parseErr := strconv.Atoi(optStr)
		if parseErr != nil {
			continue
		}
		if sq, ok := byID[qid]; ok {
			o := opt
			sq.SelectedOption = &o
		}
	}

	for _, ans := range submitted {
		if sq, ok := byID[ans.QuestionID]; ok {
			o := ans.SelectedOption
			sq.SelectedOption = &o
			sq.TimeSpentSecs = ans.TimeSpentSecs
		}
	}

	return snapshot
}

func answerRecords(snapshot []model.SessionQuestion) []model.AnswerRecord {
	records := make([]model.AnswerRecord, 0, len(snapshot))
	for _, sq := range snapshot {
		if sq.SelectedOption == nil {
			continue
		}
		records = append(records, model.AnswerRecord{
			QuestionID:     sq.QuestionID,
			SelectedOption: *sq.SelectedOption,
			TimeSpentSecs:  sq.TimeSpentSecs,
		})
	}
	return records
}

// cleanupSession drops the session's volatile Redis state after grading.
func (s *SessionService) cleanupSession(ctx context.Context, sessionID uuid.UUID) {
	id := sessionID.String()
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx,
		config.CacheKey.SessionDeadlineKey(id),
		config.CacheKey.SessionAnswersKey(id),
		config.CacheKey.SessionViolationsKey(id),
		config.CacheKey.SessionTimeSpentKey(id),
	)
	pipe.ZRem(ctx, config.WorkerKey.SessionDeadlineIndex, id)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Str("session_id", id).Msg("Failed to clean up session state")
	}
}

// GetResult returns the grading outcome of a completed session.
func (s *SessionService) GetResult(ctx context.Context, sessionID uuid.UUID, studentID int) (*model.SessionResult, error) {
	session, err := s.getOwned(ctx, sessionID, studentID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionStatusCompleted || session.Score == nil {
		return nil, ErrSessionNotGraded
	}

	snapshot, err := s.sessionRepo.GetSnapshot(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	return &model.SessionResult{
		SessionID:      session.ID,
		Score:          *session.Score,
		TotalQuestions: len(snapshot),
		Percentage:     *session.Percentage,
		IsPassed:       *session.IsPassed,
		AutoSubmitted:  session.AutoSubmitted,
	}, nil
}

// ListResults retrieves paginated admin results for a test.
func (s *SessionService) ListResults(ctx context.Context, testID uuid.UUID, search string, page, limit int) ([]repository.SessionResultRow, *response.Pagination, error) {
	page, limit = clampPage(page, limit)
	offset := (page - 1) * limit

	rows, total, err := s.sessionRepo.ListByTest(ctx, testID, search, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	if rows == nil {
		rows = []repository.SessionResultRow{}
	}

	return rows, buildPagination(page, limit, total), nil
}

func (s *SessionService) getOwned(ctx context.Context, sessionID uuid.UUID, studentID int) (*model.TestSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.StudentID != studentID {
		return nil, ErrSessionNotOwned
	}
	return session, nil
}
