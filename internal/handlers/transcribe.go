package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echoscribe/echoscribe-backend/internal/clients/elevenlabs"
	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/middleware"
	"github.com/echoscribe/echoscribe-backend/internal/services"
)

type TranscribeHandler struct {
	log                  *logger.Logger
	transcriptionService services.TranscriptionService
}

func NewTranscribeHandler(log *logger.Logger, tsvc services.TranscriptionService) *TranscribeHandler {
	return &TranscribeHandler{
		log:                  log.With("handler", "TranscribeHandler"),
		transcriptionService: tsvc,
	}
}

// POST /api/transcribe
// Multipart upload; the provider key comes per-request from the
// Authorization header. Validation failures never reach the provider.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	apiKey := middleware.APIKey(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondErrorMessage(c, http.StatusBadRequest, "no_file", "No file provided")
		return
	}
	if fileHeader.Filename == "" {
		RespondErrorMessage(c, http.StatusBadRequest, "no_file", "No file selected")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "bad_upload", err)
		return
	}
	defer file.Close()

	opts := elevenlabs.ConvertOptions{
		ModelID:               c.PostForm("model_id"),
		LanguageCode:          c.PostForm("language_code"),
		TagAudioEvents:        c.PostForm("tag_audio_events") == "true",
		Diarize:               c.PostForm("diarize") == "true",
		TimestampsGranularity: "word",
	}

	result, err := h.transcriptionService.Transcribe(c.Request.Context(), apiKey, fileHeader.Filename, file, opts)
	if err != nil {
		h.respondTranscribeError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *TranscribeHandler) respondTranscribeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingAPIKey):
		RespondError(c, http.StatusUnauthorized, "missing_api_key", err)
	case errors.Is(err, services.ErrNoFile):
		RespondError(c, http.StatusBadRequest, "no_file", err)
	case errors.Is(err, services.ErrUnsupportedMedia):
		RespondError(c, http.StatusBadRequest, "unsupported_media", err)
	default:
		var apiErr *elevenlabs.APIError
		if errors.As(err, &apiErr) {
			status := apiErr.StatusCode
			if status < http.StatusBadRequest {
				status = http.StatusBadGateway
			}
			RespondErrorMessage(c, status, "provider_error", apiErr.Message)
			return
		}
		h.log.Error("Transcription failed", "error", err)
		RespondErrorMessage(c, http.StatusInternalServerError, "transcription_failed", "Transcription failed")
	}
}
