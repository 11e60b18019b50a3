package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/paarshedu/entrance-exam-backend/internal/middleware"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
	"github.com/paarshedu/entrance-exam-backend/internal/service"
	"github.com/paarshedu/entrance-exam-backend/internal/validator"
)

// EntranceExamHandler handles the student-facing exam portal: deep link
// resolution, test listings and the session lifecycle.
type EntranceExamHandler struct {
	testService    *service.TestService
	sessionService *service.SessionService
}

// NewEntranceExamHandler creates a new EntranceExamHandler.
func NewEntranceExamHandler(testService *service.TestService, sessionService *service.SessionService) *EntranceExamHandler {
	return &EntranceExamHandler{testService: testService, sessionService: sessionService}
}

// ResolveLink godoc
// GET /api/v1/entrance-exam/link?testId=...&collegeId=...&batchName=...
// Validates an exam deep link and returns the test entry view.
func (h *EntranceExamHandler) ResolveLink(c *gin.Context) {
	testID, err := uuid.Parse(c.Query("testId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	collegeID, err := strconv.Atoi(c.Query("collegeId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	batchName := c.Query("batchName")
	if batchName == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	test, err := h.testService.ResolveLink(c.Request.Context(), testID, collegeID, batchName)
	if err != nil {
		failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": test})
}

// ListTests godoc
// GET /api/v1/entrance-exam/tests?collegeId=all|<id>
// Lists active tests, optionally scoped to one college. The order is stable
// across calls.
func (h *EntranceExamHandler) ListTests(c *gin.Context) {
	var collegeID *int
	if raw := c.DefaultQuery("collegeId", "all"); raw != "all" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		collegeID = &id
	}

	tests, err := h.testService.ListPublic(c.Request.Context(), collegeID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// CreateSession godoc
// POST /api/v1/entrance-exam/sessions
// Creates (or returns the existing) session for the authenticated student.
func (h *EntranceExamHandler) CreateSession(c *gin.Context) {
	claims := middleware.GetClaims(c)

	var req model.CreateSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		failExamError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// StartSession godoc
// POST /api/v1/entrance-exam/sessions/:session_id/start
// Activates the session and delivers the frozen question paper.
func (h *EntranceExamHandler) StartSession(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.sessionService.Start(c.Request.Context(), sessionID, claims.UserID)
	if err != nil {
		failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// GetSessionState godoc
// GET /api/v1/entrance-exam/sessions/:session_id/state
// Returns the resume state: autosaved answers, remaining time, violations.
func (h *EntranceExamHandler) GetSessionState(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	state, err := h.sessionService.GetState(c.Request.Context(), sessionID, claims.UserID)
	if err != nil {
		failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// SubmitSession godoc
// POST /api/v1/entrance-exam/sessions/:session_id/submit
// Grades and finalizes the session. REST fallback for clients without a
// WebSocket connection.
func (h *EntranceExamHandler) SubmitSession(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.sessionService.Submit(c.Request.Context(), sessionID, claims.UserID, req.Answers)
	if err != nil {
		failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// GetSessionResult godoc
// GET /api/v1/entrance-exam/sessions/:session_id/result
// Returns the grading outcome of a completed session.
func (h *EntranceExamHandler) GetSessionResult(c *gin.Context) {
	claims := middleware.GetClaims(c)

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.sessionService.GetResult(c.Request.Context(), sessionID, claims.UserID)
	if err != nil {
		failExamError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// failExamError maps exam flow errors onto response codes.
func failExamError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrTestNotActive):
		response.Fail(c, http.StatusForbidden, response.ErrTestNotActive)
	case errors.Is(err, service.ErrTestWindowNotStarted):
		response.Fail(c, http.StatusBadRequest, response.ErrTestNotStarted)
	case errors.Is(err, service.ErrTestWindowClosed):
		response.Fail(c, http.StatusBadRequest, response.ErrTestWindowClosed)
	case errors.Is(err, service.ErrWrongCollege):
		response.Fail(c, http.StatusForbidden, response.ErrWrongCollege)
	case errors.Is(err, service.ErrWrongBatch):
		response.Fail(c, http.StatusForbidden, response.ErrWrongCollege)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusConflict, response.ErrNoQuestions)
	case errors.Is(err, service.ErrRetakeNotAllowed):
		response.Fail(c, http.StatusConflict, response.ErrRetakeNotAllowed)
	case errors.Is(err, service.ErrAlreadySubmitted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadySubmitted)
	case errors.Is(err, service.ErrSessionNotGraded):
		response.Fail(c, http.StatusConflict, response.ErrInvalidSessionStep)
	case errors.Is(err, service.ErrSessionNotOwned):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, model.ErrExpiryWindowInvalid):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
