package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/paarshedu/entrance-exam-backend/internal/model"
	"github.com/paarshedu/entrance-exam-backend/internal/repository"
	"github.com/paarshedu/entrance-exam-backend/internal/response"
	"github.com/paarshedu/entrance-exam-backend/internal/service"
	"github.com/paarshedu/entrance-exam-backend/internal/validator"
)

// CollegeHandler handles admin-facing college management.
type CollegeHandler struct {
	collegeService *service.CollegeService
}

// NewCollegeHandler creates a new CollegeHandler.
func NewCollegeHandler(collegeService *service.CollegeService) *CollegeHandler {
	return &CollegeHandler{collegeService: collegeService}
}

// ListColleges godoc
// GET /api/v1/admin/colleges
func (h *CollegeHandler) ListColleges(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	search := c.Query("search")

	colleges, pagination, err := h.collegeService.List(c.Request.Context(), search, page, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"colleges": colleges}, pagination)
}

// GetCollege godoc
// GET /api/v1/admin/colleges/:id
func (h *CollegeHandler) GetCollege(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	college, err := h.collegeService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"college": college})
}

// CreateCollege godoc
// POST /api/v1/admin/colleges
func (h *CollegeHandler) CreateCollege(c *gin.Context) {
	var req model.CreateCollegeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	college := &model.College{
		Name:         req.Name,
		Address:      req.Address,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Batches:      req.Batches,
	}
	if college.Batches == nil {
		college.Batches = []string{}
	}

	if err := h.collegeService.Create(c.Request.Context(), college); err != nil {
		if errors.Is(err, repository.ErrDuplicateCollege) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"college": college})
}

// UpdateCollege godoc
// PUT /api/v1/admin/colleges/:id
func (h *CollegeHandler) UpdateCollege(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateCollegeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	college, err := h.collegeService.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if req.Name != "" {
		college.Name = req.Name
	}
	if req.Address != "" {
		college.Address = req.Address
	}
	if req.ContactEmail != "" {
		college.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != "" {
		college.ContactPhone = req.ContactPhone
	}
	if req.Batches != nil {
		college.Batches = req.Batches
	}

	if err := h.collegeService.Update(c.Request.Context(), college); err != nil {
		if errors.Is(err, repository.ErrDuplicateCollege) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"college": college})
}

// DeleteCollege godoc
// DELETE /api/v1/admin/colleges/:id
// Removes the college and, through the cascade, its tests and sessions.
func (h *CollegeHandler) DeleteCollege(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.collegeService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
