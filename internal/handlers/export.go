package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/services"
	"github.com/echoscribe/echoscribe-backend/internal/transcript"
)

type ExportHandler struct {
	log           *logger.Logger
	exportService services.ExportService
}

func NewExportHandler(log *logger.Logger, esvc services.ExportService) *ExportHandler {
	return &ExportHandler{
		log:           log.With("handler", "ExportHandler"),
		exportService: esvc,
	}
}

// GET /api/transcripts/:id/export/:format
// Streams the transcript as a download named after the original media
// file with the format extension.
func (h *ExportHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErrorMessage(c, http.StatusBadRequest, "bad_id", "invalid transcript id")
		return
	}
	format, err := transcript.ParseFormat(c.Param("format"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_format", err)
		return
	}

	result, err := h.exportService.ExportRecord(c.Request.Context(), id, format)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			RespondErrorMessage(c, http.StatusNotFound, "not_found", "transcript not found")
		case errors.Is(err, services.ErrNoTranscript):
			RespondError(c, http.StatusConflict, "empty_transcript", err)
		default:
			RespondError(c, http.StatusInternalServerError, "export_failed", err)
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
