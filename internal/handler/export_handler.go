package handler

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/certify-backend/internal/logger"
	"github.com/stemsi/certify-backend/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type ExportHandler struct {
	exports *service.ExportService
	log     zerolog.Logger
}

func NewExportHandler(exports *service.ExportService, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		exports: exports,
		log:     logger.Component(log, "export_handler"),
	}
}

// Export godoc
// GET /api/v1/certifications/:name/export
func (h *ExportHandler) Export(c *gin.Context) {
	data, name, err := h.exports.Export(c.Request.Context(), c.Param("name"))
	if err != nil {
		failWith(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, fileName(name)))
	c.Data(http.StatusOK, xlsxContentType, data)
}

func fileName(name string) string {
	safe := unsafeFileChars.ReplaceAllString(name, "_")
	if safe == "" || safe == "_" {
		return "certification"
	}
	return safe
}
