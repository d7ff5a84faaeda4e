package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/echoscribe/echoscribe-backend/internal/handlers"
	"github.com/echoscribe/echoscribe-backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName        string
	AllowOrigins       []string
	APIKeyMiddleware   *middleware.APIKeyMiddleware
	TranscribeHandler  *handlers.TranscribeHandler
	TranscriptHandler  *handlers.TranscriptHandler
	ExportHandler      *handlers.ExportHandler
	EventsHandler      *handlers.EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/health", handlers.Health)
		api.GET("/events", cfg.EventsHandler.Stream)

		api.POST("/transcribe", cfg.APIKeyMiddleware.RequireAPIKey(), cfg.TranscribeHandler.Transcribe)
		api.POST("/save-transcript", cfg.TranscriptHandler.SaveTranscript)

		api.GET("/transcripts", cfg.TranscriptHandler.ListTranscripts)
		api.GET("/transcripts/:id", cfg.TranscriptHandler.GetTranscript)
		api.GET("/transcripts/:id/sentences", cfg.TranscriptHandler.GetSentences)
		api.GET("/transcripts/:id/active", cfg.TranscriptHandler.GetActiveSentence)
		api.GET("/transcripts/:id/cues", cfg.TranscriptHandler.GetCues)
		api.GET("/transcripts/:id/export/:format", cfg.ExportHandler.Export)
	}

	return router
}
