package worker

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/paarshedu/entrance-exam-backend/internal/config"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// deadlineTick controls the Redis index poll interval.
	deadlineTick = 1 * time.Second
	// sweepInterval controls the PostgreSQL fallback scan. It catches
	// sessions whose Redis deadline entry was lost.
	sweepInterval = 1 * time.Minute
)

// DeadlineWorker force-submits active sessions whose time is up while no
// websocket is connected to do it live. It polls the session deadline index
// in Redis every second and runs a slower database sweep as a safety net.
type DeadlineWorker struct {
	sessionService *service.SessionService
	sessionRepo    *repository.SessionRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewDeadlineWorker creates a new DeadlineWorker.
func NewDeadlineWorker(
	sessionService *service.SessionService,
	sessionRepo *repository.SessionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *DeadlineWorker {
	return &DeadlineWorker{
		sessionService: sessionService,
		sessionRepo:    sessionRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "deadline_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *DeadlineWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	ticker := time.NewTicker(deadlineTick)
	defer ticker.Stop()

	sweeper := time.NewTicker(sweepInterval)
	defer sweeper.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.pollIndex(ctx)
		case <-sweeper.C:
			w.sweepDatabase(ctx)
		}
	}
}

// pollIndex grades every session whose deadline score has passed.
func (w *DeadlineWorker) pollIndex(ctx context.Context) {
	now := strconv.FormatInt(time.Now().Unix(), 10)

	ids, err := w.rdb.ZRangeByScore(ctx, config.WorkerKey.SessionDeadlineIndex, &redis.ZRangeBy{
		Min: "-inf",
		Max: now,
	}).Result()
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Deadline index read error")
		}
		return
	}

	for _, raw := range ids {
		w.expire(ctx, raw)
	}
}

func (w *DeadlineWorker) expire(ctx context.Context, raw string) {
	// Remove the index entry regardless of outcome: a session that fails to
	// parse can never be graded, and a graded one must not fire twice. The
	// database sweep re-catches sessions whose grading genuinely failed.
	defer w.rdb.ZRem(ctx, config.WorkerKey.SessionDeadlineIndex, raw)

	sessionID, err := uuid.Parse(raw)
	if err != nil {
		w.log.Error().Str("member", raw).Msg("Dropping malformed deadline entry")
		return
	}

	result, err := w.sessionService.ForceSubmit(ctx, sessionID)
	if err != nil {
		// Already graded by the live websocket path or a concurrent worker.
		if errors.Is(err, service.ErrAlreadySubmitted) {
			return
		}
		w.log.Error().Err(err).
			Str("session_id", sessionID.String()).
			Msg("Force submit failed")
		return
	}

	w.log.Info().
		Str("session_id", sessionID.String()).
		Int("score", result.Score).
		Msg("Session auto-submitted on deadline")
}

// sweepDatabase grades ACTIVE sessions the Redis index missed.
func (w *DeadlineWorker) sweepDatabase(ctx context.Context) {
	expired, err := w.sessionRepo.ListExpiredActive(ctx, time.Now())
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Expired session sweep error")
		}
		return
	}

	for _, session := range expired {
		if _, err := w.sessionService.ForceSubmit(ctx, session.ID); err != nil {
			if errors.Is(err, service.ErrAlreadySubmitted) {
				continue
			}
			w.log.Error().Err(err).
				Str("session_id", session.ID.String()).
				Msg("Sweep force submit failed")
			continue
		}

		w.log.Warn().
			Str("session_id", session.ID.String()).
			Msg("Session recovered by database sweep")
	}
}
