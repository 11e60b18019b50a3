package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/paarshedu/entrance-exam-backend/internal/config"
	"github.com/paarshedu/entrance-exam-backend/internal/examflow"
	"github.com/paarshedu/entrance-exam-backend/internal/middleware"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/service"
	ws "github.com/paarshedu/entrance-exam-backend/internal/websocket"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// ExamWSHandler streams a live exam session over WebSocket: answer autosave,
// violation reporting and submission. Each connection owns an exam flow
// machine, a countdown and a violation monitor for its session.
type ExamWSHandler struct {
	sessionService *service.SessionService
	cfg            *config.Config
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewExamWSHandler creates a new ExamWSHandler.
func NewExamWSHandler(sessionService *service.SessionService, cfg *config.Config, log zerolog.Logger) *ExamWSHandler {
	return &ExamWSHandler{
		sessionService: sessionService,
		cfg:            cfg,
		log:            log.With().Str("component", "exam_ws").Logger(),
		upgrader:       buildUpgrader(cfg.AllowedOrigins),
	}
}

// wsSession is the per-connection state. The write mutex serializes frames
// between the read loop and the countdown/monitor goroutines; the finish
// guard guarantees at most one grading attempt runs at a time and exactly
// one graded frame is delivered.
type wsSession struct {
	conn      *websocket.Conn
	machine   *examflow.Machine
	countdown *examflow.Countdown
	monitor   *examflow.Monitor
	writeMu   sync.Mutex

	finishMu sync.Mutex
	finished bool
}

func (s *wsSession) write(v interface{}) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = ws.WriteTyped(s.conn, v)
}

// beginFinish claims the right to grade. Returns false if another path
// already finished the session.
func (s *wsSession) beginFinish() bool {
	s.finishMu.Lock()
	defer s.finishMu.Unlock()
	if s.finished {
		return false
	}
	s.finished = true
	return true
}

// abortFinish releases the claim after a failed grade attempt so the
// deadline path can still fire.
func (s *wsSession) abortFinish() {
	s.finishMu.Lock()
	s.finished = false
	s.finishMu.Unlock()
}

// Stream godoc
// WS /ws/v1/entrance-exam/sessions/:session_id/stream
// Upgrades to WebSocket for a running exam session.
func (h *ExamWSHandler) Stream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	state, err := h.sessionService.GetState(c.Request.Context(), sessionID, claims.UserID)
	if err != nil || state.Status != model.SessionStatusActive {
		c.JSON(http.StatusConflict, gin.H{"error": "no active session"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("student_id", claims.UserID).
		Str("session_id", sessionID.String()).
		Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := &wsSession{
		conn:    conn,
		machine: examflow.NewMachineAt(examflow.StepTest),
	}

	remaining := time.Duration(state.RemainingSeconds * float64(time.Second))
	sess.countdown = examflow.NewCountdown(remaining, func() {
		h.finish(ctx, sess, wsLog, sessionID, "deadline", examflow.EventWindowClosed)
	})
	sess.monitor = examflow.NewMonitorAt(h.cfg.ViolationLimit, state.ViolationCount, func() {
		h.finish(ctx, sess, wsLog, sessionID, "violations", examflow.EventSubmitted)
	})

	go sess.countdown.Run(ctx)
	defer sess.countdown.Stop()

	wsLog.Info().Float64("remaining_seconds", remaining.Seconds()).Msg("Student connected")

	for {
		var envelope ws.RequestEnvelope
		raw, err := readRaw(conn, &envelope)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch envelope.Action {
		case ws.ActionAutosave:
			h.handleAutosave(ctx, sess, wsLog, sessionID, claims.UserID, raw)
		case ws.ActionViolation:
			h.handleViolation(ctx, sess, wsLog, sessionID, claims.UserID, raw)
		case ws.ActionSubmit:
			h.handleSubmit(ctx, sess, wsLog, sessionID, claims.UserID, raw)
			return
		case ws.ActionPing:
			sess.write(ws.PongResponse{
				Event:            ws.EventPong,
				RemainingSeconds: sess.countdown.Remaining().Seconds(),
			})
		default:
			wsLog.Warn().Str("action", string(envelope.Action)).Msg("Unknown action")
			sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(envelope.Action)})
		}

		if sess.machine.IsTerminal() {
			return
		}
	}
}

// readRaw reads one frame, peeks at the action envelope and returns the raw
// bytes for a second, typed decode.
func readRaw(conn *websocket.Conn, envelope *ws.RequestEnvelope) ([]byte, error) {
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, envelope); err != nil {
		return nil, err
	}
	return raw, nil
}

func (h *ExamWSHandler) handleAutosave(ctx context.Context, sess *wsSession, wsLog zerolog.Logger, sessionID uuid.UUID, studentID int, raw []byte) {
	var msg ws.AutosaveRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "malformed autosave payload"})
		return
	}

	questionID, err := uuid.Parse(msg.QuestionID)
	if err != nil {
		sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "invalid question_id format"})
		return
	}

	err = h.sessionService.Autosave(ctx, sessionID, studentID, model.AnswerRecord{
		QuestionID:     questionID,
		SelectedOption: msg.Option,
		TimeSpentSecs:  msg.TimeSpentSecs,
	})
	if err != nil {
		wsLog.Error().Err(err).Msg("Autosave failed")
		sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "save failed"})
		return
	}

	sess.write(ws.AutosaveResponse{Event: ws.EventSuccess, Status: "saved"})
}

func (h *ExamWSHandler) handleViolation(ctx context.Context, sess *wsSession, wsLog zerolog.Logger, sessionID uuid.UUID, studentID int, raw []byte) {
	var msg ws.ViolationRequest
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Kind == "" {
		sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "malformed violation payload"})
		return
	}

	count, limitReached, err := h.sessionService.RecordViolation(ctx, sessionID, studentID, msg.Kind)
	if err != nil {
		if !errors.Is(err, service.ErrAlreadySubmitted) {
			wsLog.Error().Err(err).Msg("Violation record failed")
		}
		sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "violation not recorded"})
		return
	}

	remaining := h.cfg.ViolationLimit - count
	if remaining < 0 {
		remaining = 0
	}
	sess.write(ws.ViolationResponse{Event: ws.EventViolation, Count: count, Remaining: remaining})

	// The shared counter decides: events from every open connection of the
	// session land in the same Redis INCR, so a limit split across tabs
	// still trips here.
	if limitReached {
		h.finish(ctx, sess, wsLog, sessionID, "violations", examflow.EventSubmitted)
		return
	}

	// Local fast path for the single-connection case.
	sess.monitor.Record(examflow.ViolationKind(msg.Kind))
}

func (h *ExamWSHandler) handleSubmit(ctx context.Context, sess *wsSession, wsLog zerolog.Logger, sessionID uuid.UUID, studentID int, raw []byte) {
	var msg ws.SubmitRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "malformed submit payload"})
		return
	}

	answers := make([]model.AnswerRecord, 0, len(msg.Answers))
	for _, a := range msg.Answers {
		questionID, err := uuid.Parse(a.QuestionID)
		if err != nil {
			continue
		}
		answers = append(answers, model.AnswerRecord{
			QuestionID:     questionID,
			SelectedOption: a.Option,
			TimeSpentSecs:  a.TimeSpentSecs,
		})
	}

	if !sess.beginFinish() {
		sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "session already finished"})
		return
	}

	result, err := h.sessionService.Submit(ctx, sessionID, studentID, answers)
	if err != nil {
		if errors.Is(err, service.ErrAlreadySubmitted) {
			sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "session already submitted"})
			return
		}
		sess.abortFinish()
		wsLog.Error().Err(err).Msg("Submit failed")
		sess.write(ws.ErrorResponse{Event: ws.EventError, Error: "submit failed"})
		return
	}

	sess.countdown.Stop()
	sess.machine.Apply(examflow.EventSubmitted)
	sess.write(ws.GradedResponse{
		Event:      ws.EventGraded,
		Status:     "completed",
		Score:      result.Score,
		Percentage: result.Percentage,
		IsPassed:   result.IsPassed,
	})
}

// finish force-submits the session from the countdown or monitor goroutine
// and delivers the graded frame before the connection is torn down.
func (h *ExamWSHandler) finish(ctx context.Context, sess *wsSession, wsLog zerolog.Logger, sessionID uuid.UUID, forcedBy string, ev examflow.Event) {
	if !sess.beginFinish() {
		return
	}
	sess.countdown.Stop()

	result, err := h.sessionService.ForceSubmit(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, service.ErrAlreadySubmitted) {
			wsLog.Error().Err(err).Str("forced_by", forcedBy).Msg("Force submit failed")
		}
	} else {
		sess.machine.Apply(ev)
		sess.write(ws.GradedResponse{
			Event:      ws.EventGraded,
			Status:     "completed",
			Score:      result.Score,
			Percentage: result.Percentage,
			IsPassed:   result.IsPassed,
			ForcedBy:   forcedBy,
		})
		wsLog.Info().Str("forced_by", forcedBy).Int("score", result.Score).Msg("Session force-submitted")
	}

	// Unblock the read loop so the connection closes promptly.
	sess.conn.SetReadDeadline(time.Now().Add(time.Second))
}
