package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-steward/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-steward/internal/adapter/repository"
	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-steward/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-steward/internal/usecase/transcribe"
	pkgai "github.com/johnquangdev/meeting-steward/pkg/ai"
	"github.com/johnquangdev/meeting-steward/pkg/config"
	"github.com/johnquangdev/meeting-steward/pkg/speech"
)

// steward analyses a single meeting from the command line and prints the
// stored result as JSON.
func main() {
	var (
		transcriptPath = flag.String("transcript", "", "path to a transcript text file")
		audioPath      = flag.String("audio", "", "path to an audio file")
		model          = flag.String("model", "", "override the configured model")
		temperature    = flag.Float64("temperature", 0, "override the configured sampling temperature")
		maxAttempts    = flag.Int("attempts", 0, "override the configured retry budget")
	)
	flag.Parse()

	if (*transcriptPath == "") == (*audioPath == "") {
		log.Fatal("exactly one of -transcript or -audio is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	ollamaClient := pkgai.NewOllamaClient(&cfg.Ollama, logger)
	whisperClient := speech.NewWhisperClient(&cfg.Whisper)
	transcribeService := transcribe.NewService(whisperClient, &cfg.Whisper, cfg.Pipeline.DefaultSpeaker, logger)

	orchestrator := pipeline.NewOrchestrator(
		pipeline.NewTranscriberStage(transcribeService),
		pipeline.NewSummarizerStage(ollamaClient),
		pipeline.NewDecisionStage(ollamaClient),
		pipeline.NewActionItemStage(ollamaClient),
		logger,
	)
	svc := pipeline.NewService(orchestrator, repository.NewMeetingRepository(db), cfg.Ollama, logger)

	opts := pipeline.RunOptions{
		Model:       *model,
		Temperature: *temperature,
		MaxAttempts: *maxAttempts,
	}

	ctx := context.Background()

	var (
		meeting   *entities.Meeting
		ranPhases []pipeline.Phase
		runErr    error
	)
	if *transcriptPath != "" {
		data, readErr := os.ReadFile(*transcriptPath)
		if readErr != nil {
			log.Fatalf("Failed to read transcript: %v", readErr)
		}
		meeting, ranPhases, runErr = svc.RunFromText(ctx, strings.TrimSpace(string(data)), opts)
	} else {
		meeting, ranPhases, runErr = svc.RunFromAudio(ctx, *audioPath, opts)
	}
	if runErr != nil {
		log.Fatalf("Analysis failed after phases %v: %v", ranPhases, runErr)
	}

	out, err := json.MarshalIndent(presenter.ToMeetingResponse(meeting, ranPhases), "", "  ")
	if err != nil {
		log.Fatalf("Failed to render result: %v", err)
	}
	fmt.Println(string(out))
}
