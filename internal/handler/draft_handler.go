package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stemsi/certify-backend/internal/response"
	"github.com/stemsi/certify-backend/internal/service"
	"github.com/stemsi/certify-backend/internal/validator"
)

type DraftHandler struct {
	drafts *service.DraftService
	log    zerolog.Logger
}

func NewDraftHandler(drafts *service.DraftService, log zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		drafts: drafts,
		log:    logger.Component(log, "draft_handler"),
	}
}

// Open godoc
// POST /api/v1/drafts
func (h *DraftHandler) Open(c *gin.Context) {
	var req model.OpenDraftRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	d, err := h.drafts.Open(c.Request.Context(), req.CourseName)
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"draft": d})
}

// Get godoc
// GET /api/v1/drafts/:id
func (h *DraftHandler) Get(c *gin.Context) {
	d, err := h.drafts.Get(c.Param("id"))
	h.reply(c, d, err)
}

// Rename godoc
// PUT /api/v1/drafts/:id/name
func (h *DraftHandler) Rename(c *gin.Context) {
	var req model.RenameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	d, err := h.drafts.Rename(c.Param("id"), req.Name)
	h.reply(c, d, err)
}

// AddQuestion godoc
// POST /api/v1/drafts/:id/questions
func (h *DraftHandler) AddQuestion(c *gin.Context) {
	d, err := h.drafts.AddQuestion(c.Param("id"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"draft": d})
}

// ReplaceQuestion godoc
// PUT /api/v1/drafts/:id/questions/:index
func (h *DraftHandler) ReplaceQuestion(c *gin.Context) {
	index, ok := questionIndex(c)
	if !ok {
		return
	}

	var req model.ReplaceQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	d, err := h.drafts.ReplaceQuestion(c.Param("id"), index, req.Question)
	h.reply(c, d, err)
}

// DeleteQuestion godoc
// DELETE /api/v1/drafts/:id/questions/:index
func (h *DraftHandler) DeleteQuestion(c *gin.Context) {
	index, ok := questionIndex(c)
	if !ok {
		return
	}

	d, err := h.drafts.DeleteQuestion(c.Param("id"), index)
	h.reply(c, d, err)
}

// Save godoc
// POST /api/v1/drafts/:id/save
// Validation problems are part of a successful reply so the author can fix them.
func (h *DraftHandler) Save(c *gin.Context) {
	res, err := h.drafts.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	out := model.SaveDraftResponse{Result: res}
	if res.Success {
		out.Message = "Certification saved successfully."
	}
	response.Success(c, http.StatusOK, out)
}

// Discard godoc
// DELETE /api/v1/drafts/:id
func (h *DraftHandler) Discard(c *gin.Context) {
	if !h.drafts.Discard(c.Param("id")) {
		response.Fail(c, http.StatusNotFound, response.ErrDraftNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "draft discarded"})
}

func (h *DraftHandler) reply(c *gin.Context, d model.Draft, err error) {
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"draft": d})
}

func questionIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidIndex)
		return 0, false
	}
	return index, true
}
