package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stemsi/certify-backend/internal/response"
	"github.com/stemsi/certify-backend/internal/service"
	"github.com/stemsi/certify-backend/internal/validator"
)

// AssessmentHandler exposes the assessment flow over plain HTTP. Each call
// addresses the session created by Start.
type AssessmentHandler struct {
	assessments *service.AssessmentService
	log         zerolog.Logger
}

func NewAssessmentHandler(assessments *service.AssessmentService, log zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		assessments: assessments,
		log:         logger.Component(log, "assessment_handler"),
	}
}

// Start godoc
// POST /api/v1/assessments
func (h *AssessmentHandler) Start(c *gin.Context) {
	var req model.StartAssessmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	st, err := h.assessments.Start(c.Request.Context(), req.CourseName)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"assessment": st})
}

// State godoc
// GET /api/v1/assessments/:id
func (h *AssessmentHandler) State(c *gin.Context) {
	st, err := h.assessments.State(c.Param("id"))
	h.reply(c, st, err)
}

// Select godoc
// POST /api/v1/assessments/:id/selections
func (h *AssessmentHandler) Select(c *gin.Context) {
	var req model.SelectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	st, err := h.assessments.Select(c.Param("id"), req.AnswerID, *req.Selected)
	h.reply(c, st, err)
}

// Check godoc
// POST /api/v1/assessments/:id/check
func (h *AssessmentHandler) Check(c *gin.Context) {
	correct, st, err := h.assessments.Check(c.Param("id"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"correct": correct, "assessment": st})
}

// Advance godoc
// POST /api/v1/assessments/:id/advance
func (h *AssessmentHandler) Advance(c *gin.Context) {
	st, err := h.assessments.Advance(c.Request.Context(), c.Param("id"))
	h.reply(c, st, err)
}

// Outcome godoc
// GET /api/v1/assessments/:id/outcome
func (h *AssessmentHandler) Outcome(c *gin.Context) {
	out, err := h.assessments.Outcome(c.Param("id"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"outcome": out})
}

// Reset godoc
// POST /api/v1/assessments/:id/reset
func (h *AssessmentHandler) Reset(c *gin.Context) {
	st, err := h.assessments.Reset(c.Param("id"))
	h.reply(c, st, err)
}

// Discard godoc
// DELETE /api/v1/assessments/:id
func (h *AssessmentHandler) Discard(c *gin.Context) {
	if !h.assessments.Discard(c.Param("id")) {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "assessment discarded"})
}

func (h *AssessmentHandler) reply(c *gin.Context, st model.AssessmentState, err error) {
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assessment": st})
}
