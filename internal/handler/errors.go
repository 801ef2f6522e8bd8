package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/assessment"
	"github.com/stemsi/certify-backend/internal/certification"
	"github.com/stemsi/certify-backend/internal/response"
	"github.com/stemsi/certify-backend/internal/service"
)

// classify maps a service error to its HTTP status and error code. Unknown
// errors are internal.
func classify(err error) (int, response.ErrCode) {
	switch {
	case errors.Is(err, service.ErrCertificationNotFound):
		return http.StatusNotFound, response.ErrCourseNotFound
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, response.ErrSessionNotFound
	case errors.Is(err, service.ErrDraftNotFound):
		return http.StatusNotFound, response.ErrDraftNotFound
	case errors.Is(err, assessment.ErrCompleted):
		return http.StatusConflict, response.ErrAssessmentCompleted
	case errors.Is(err, assessment.ErrNotCompleted):
		return http.StatusConflict, response.ErrAssessmentNotCompleted
	case errors.Is(err, assessment.ErrAlreadyChecked):
		return http.StatusConflict, response.ErrQuestionAlreadyChecked
	case errors.Is(err, assessment.ErrNotChecked):
		return http.StatusConflict, response.ErrQuestionNotChecked
	case errors.Is(err, assessment.ErrUnknownAnswer):
		return http.StatusBadRequest, response.ErrUnknownAnswer
	case errors.Is(err, assessment.ErrNoQuestions):
		return http.StatusUnprocessableEntity, response.ErrNoQuestions
	case errors.Is(err, certification.ErrIndexOutOfRange):
		return http.StatusBadRequest, response.ErrInvalidIndex
	case errors.Is(err, certification.ErrDuplicateID):
		return http.StatusConflict, response.ErrConflict
	default:
		return http.StatusInternalServerError, response.ErrInternal
	}
}

// failWith writes the error response for err, logging it when it is internal.
func failWith(c *gin.Context, log zerolog.Logger, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Str("request_id", response.RequestID(c)).Msg("Request failed")
	}
	response.Fail(c, status, code)
}
