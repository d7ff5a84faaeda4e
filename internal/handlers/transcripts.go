package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/services"
	"github.com/echoscribe/echoscribe-backend/internal/transcript"
)

type TranscriptHandler struct {
	log                  *logger.Logger
	queryService         services.TranscriptQueryService
	transcriptionService services.TranscriptionService
}

func NewTranscriptHandler(log *logger.Logger, qsvc services.TranscriptQueryService, tsvc services.TranscriptionService) *TranscriptHandler {
	return &TranscriptHandler{
		log:                  log.With("handler", "TranscriptHandler"),
		queryService:         qsvc,
		transcriptionService: tsvc,
	}
}

type saveTranscriptRequest struct {
	Filename   string                 `json:"filename"`
	Transcript *transcript.Transcript `json:"transcript"`
}

// POST /api/save-transcript
func (h *TranscriptHandler) SaveTranscript(c *gin.Context) {
	var req saveTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	if req.Filename == "" || req.Transcript == nil {
		RespondErrorMessage(c, http.StatusBadRequest, "bad_request", "Missing filename or transcript")
		return
	}

	record, err := h.transcriptionService.SaveTranscript(c.Request.Context(), req.Filename, req.Transcript)
	if err != nil {
		h.log.Error("Failed to save transcript", "filename", req.Filename, "error", err)
		RespondError(c, http.StatusInternalServerError, "save_failed", err)
		return
	}
	RespondOK(c, gin.H{"message": "Transcript saved successfully", "id": record.ID})
}

// GET /api/transcripts
func (h *TranscriptHandler) ListTranscripts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	records, err := h.queryService.List(c.Request.Context(), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "list_failed", err)
		return
	}
	RespondOK(c, records)
}

// GET /api/transcripts/:id
func (h *TranscriptHandler) GetTranscript(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}
	record, err := h.queryService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	RespondOK(c, record)
}

// GET /api/transcripts/:id/sentences
func (h *TranscriptHandler) GetSentences(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}
	sentences, err := h.queryService.Sentences(c.Request.Context(), id)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	RespondOK(c, gin.H{"sentences": sentences})
}

// GET /api/transcripts/:id/active?t=<seconds>
// Maps a playback position onto the active sentence index; -1 means the
// position falls between sentences.
func (h *TranscriptHandler) GetActiveSentence(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}
	at, err := strconv.ParseFloat(c.Query("t"), 64)
	if err != nil {
		RespondErrorMessage(c, http.StatusBadRequest, "bad_time", "query parameter t must be a number of seconds")
		return
	}
	index, err := h.queryService.ActiveSentence(c.Request.Context(), id, at)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	RespondOK(c, gin.H{"index": index})
}

// GET /api/transcripts/:id/cues
func (h *TranscriptHandler) GetCues(c *gin.Context) {
	id, ok := h.recordID(c)
	if !ok {
		return
	}
	cues, err := h.queryService.Cues(c.Request.Context(), id)
	if err != nil {
		h.respondLookupError(c, err)
		return
	}
	RespondOK(c, gin.H{"cues": cues})
}

func (h *TranscriptHandler) recordID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondErrorMessage(c, http.StatusBadRequest, "bad_id", "invalid transcript id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *TranscriptHandler) respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		RespondErrorMessage(c, http.StatusNotFound, "not_found", "transcript not found")
		return
	}
	RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
}
