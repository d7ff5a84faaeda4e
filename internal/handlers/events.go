package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/services"
	"github.com/echoscribe/echoscribe-backend/internal/sse"
)

type EventsHandler struct {
	log *logger.Logger
	hub *sse.Hub
}

func NewEventsHandler(log *logger.Logger, hub *sse.Hub) *EventsHandler {
	return &EventsHandler{
		log: log.With("handler", "EventsHandler"),
		hub: hub,
	}
}

// GET /api/events?filename=<media filename>
// Streams progress and completion events for one media file's
// transcription as server-sent events.
func (e *EventsHandler) Stream(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		RespondErrorMessage(c, http.StatusBadRequest, "bad_request", "query parameter filename is required")
		return
	}

	client := e.hub.NewClient()
	e.hub.AddChannel(client, services.ProgressChannel(filename))
	defer e.hub.CloseClient(client)

	e.hub.ServeHTTP(c.Writer, c.Request, client)
}
