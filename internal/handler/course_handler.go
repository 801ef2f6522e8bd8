package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/model"
	"github.com/stemsi/certify-backend/internal/service"
)

// CourseHandler serves certification documents to the assessment and
// authoring clients. Its responses are bare JSON bodies, not the API envelope.
type CourseHandler struct {
	certs          *service.CertificationService
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(certs *service.CertificationService, maxUploadBytes int64, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		certs:          certs,
		maxUploadBytes: maxUploadBytes,
		log:            logger.Component(log, "course_handler"),
	}
}

// List godoc
// GET /courses
func (h *CourseHandler) List(c *gin.Context) {
	names, err := h.certs.List(c.Request.Context())
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, names)
}

// Get godoc
// GET /courses/:courseName
// Returns the document as stored; older documents may lack identifiers.
func (h *CourseHandler) Get(c *gin.Context) {
	cert, err := h.certs.Get(c.Request.Context(), c.Param("courseName"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cert)
}

// Upload godoc
// POST /certificationUpload
// Body is a Certification; the reply is always a ValidationResult.
func (h *CourseHandler) Upload(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var cert model.Certification
	if err := json.NewDecoder(body).Decode(&cert); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, model.Invalid(
				fmt.Sprintf("certification document exceeds %d bytes", h.maxUploadBytes)))
			return
		}
		c.JSON(http.StatusBadRequest, model.Invalid("invalid certification document: "+err.Error()))
		return
	}

	res := h.certs.Save(c.Request.Context(), cert)
	if !res.Success {
		c.JSON(http.StatusUnprocessableEntity, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
