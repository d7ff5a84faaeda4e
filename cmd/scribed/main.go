package main

import (
	"context"
	"fmt"
	"os"

	"github.com/echoscribe/echoscribe-backend/internal/clients/elevenlabs"
	"github.com/echoscribe/echoscribe-backend/internal/clients/redis"
	"github.com/echoscribe/echoscribe-backend/internal/db"
	"github.com/echoscribe/echoscribe-backend/internal/handlers"
	"github.com/echoscribe/echoscribe-backend/internal/logger"
	"github.com/echoscribe/echoscribe-backend/internal/middleware"
	"github.com/echoscribe/echoscribe-backend/internal/observability"
	"github.com/echoscribe/echoscribe-backend/internal/repos"
	"github.com/echoscribe/echoscribe-backend/internal/server"
	"github.com/echoscribe/echoscribe-backend/internal/services"
	"github.com/echoscribe/echoscribe-backend/internal/sse"
	"github.com/echoscribe/echoscribe-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	shutdownTracing := observability.Init(ctx, log, observability.Config{
		ServiceName: "echoscribe-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	defer func() {
		if shutdownTracing != nil {
			_ = shutdownTracing(ctx)
		}
	}()

	// Database
	dbService, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = dbService.AutoMigrateAll(); err != nil {
		log.Warn("Auto migration failed", "error", err)
	}
	theDB := dbService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	transcriptRepo := repos.NewTranscriptRecordRepo(theDB, log)
	mediaFileRepo := repos.NewMediaFileRepo(theDB, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	hub := sse.NewHub(log)

	// Redis fan-in keeps multiple instances publishing into the same
	// browser streams. Optional: without REDIS_ADDR events stay local.
	if bus, err := redis.NewEventBus(log); err != nil {
		log.Warn("Redis event bus disabled", "error", err)
	} else {
		if err := bus.StartForwarder(ctx, hub.Broadcast); err != nil {
			log.Warn("Redis forwarder failed to start", "error", err)
		}
		defer func() { _ = bus.Close() }()
	}

	// Services
	log.Info("Setting up services from main...")
	storageService, err := services.NewMediaStorageService(log)
	if err != nil {
		log.Error("Could not init MediaStorageService", "error", err)
		os.Exit(1)
	}
	sttClient := elevenlabs.NewClient(log)
	progressService := services.NewProgressService(log, hub)
	transcriptionService := services.NewTranscriptionService(theDB, log, sttClient, storageService, progressService, transcriptRepo, mediaFileRepo)
	querySvc := services.NewTranscriptQueryService(theDB, log, transcriptRepo)
	exportService := services.NewExportService(theDB, log, transcriptRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	transcribeHandler := handlers.NewTranscribeHandler(log, transcriptionService)
	transcriptHandler := handlers.NewTranscriptHandler(log, querySvc, transcriptionService)
	exportHandler := handlers.NewExportHandler(log, exportService)
	eventsHandler := handlers.NewEventsHandler(log, hub)

	// Middleware
	apiKeyMiddleware := middleware.NewAPIKeyMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:       "echoscribe-backend",
		AllowOrigins:      utils.GetEnvAsSlice("CORS_ALLOW_ORIGINS", nil, log),
		APIKeyMiddleware:  apiKeyMiddleware,
		TranscribeHandler: transcribeHandler,
		TranscriptHandler: transcriptHandler,
		ExportHandler:     exportHandler,
		EventsHandler:     eventsHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
