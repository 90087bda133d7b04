package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/johnquangdev/meeting-steward/pkg/validator"

	"github.com/johnquangdev/meeting-steward/internal/adapter/handler"
	"github.com/johnquangdev/meeting-steward/internal/adapter/repository"
	"github.com/johnquangdev/meeting-steward/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-steward/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-steward/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-steward/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-steward/internal/usecase/transcribe"
	pkgai "github.com/johnquangdev/meeting-steward/pkg/ai"
	"github.com/johnquangdev/meeting-steward/pkg/config"
	"github.com/johnquangdev/meeting-steward/pkg/speech"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()
	e.Validator = pkgvalidator.New()
	e.HideBanner = true
	e.HidePort = false

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("DB_AUTO_MIGRATE is enabled in production. Manage schema with sql-migrate instead.")
		}
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	} else {
		log.Println("🔄 Skipping migrations; run cmd/migrate or enable DB_AUTO_MIGRATE in development")
	}

	// Initialize Redis
	log.Println("📦 Connecting to Redis...")
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	meetingCache := cache.NewStore(redisClient, cfg.Redis.MeetingTTL)

	// Initialize object storage for audio archival
	log.Println("📦 Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize repositories
	log.Println("⚙️  Initializing repositories...")
	meetingRepo := repository.NewCachedMeetingRepository(
		repository.NewMeetingRepository(db),
		meetingCache,
		logger,
	)

	// Initialize AI components
	log.Println("🤖 Initializing AI components...")
	ollamaClient := pkgai.NewOllamaClient(&cfg.Ollama, logger)
	{
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Ollama.Timeout)
		ollamaClient.EnsureModelAvailable(ctx, cfg.Ollama.Model)
		cancel()
	}

	whisperClient := speech.NewWhisperClient(&cfg.Whisper)
	transcribeService := transcribe.NewService(whisperClient, &cfg.Whisper, cfg.Pipeline.DefaultSpeaker, logger)

	// Assemble the analysis pipeline
	log.Println("🧩 Assembling analysis pipeline...")
	orchestrator := pipeline.NewOrchestrator(
		pipeline.NewTranscriberStage(transcribeService),
		pipeline.NewSummarizerStage(ollamaClient),
		pipeline.NewDecisionStage(ollamaClient),
		pipeline.NewActionItemStage(ollamaClient),
		logger,
	)
	pipelineService := pipeline.NewService(
		orchestrator,
		meetingRepo,
		cfg.Ollama,
		logger,
		pipeline.WithArchiver(minioClient),
	)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	meetingHandler := handler.NewMeetingHandler(pipelineService, meetingRepo, cfg, logger)
	router := handler.NewRouter(cfg, meetingHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited")
}
