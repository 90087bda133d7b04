package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/internal/domain/repositories"
	"github.com/johnquangdev/meeting-steward/pkg/config"
)

// AudioArchiver moves a local audio file into durable storage and returns the
// stored object reference.
type AudioArchiver interface {
	Archive(ctx context.Context, localPath string) (string, error)
}

// Service runs complete meeting analyses and persists the finished aggregate.
type Service struct {
	orch     *Orchestrator
	repo     repositories.MeetingRepository
	archive  AudioArchiver
	defaults RunOptions
	logger   *zap.Logger
}

// Option customises Service construction.
type Option func(*Service)

// WithArchiver stores processed audio durably and persists the stored
// reference instead of the scratch path.
func WithArchiver(a AudioArchiver) Option {
	return func(s *Service) { s.archive = a }
}

// NewService constructs the pipeline entry point. Unset run options fall back
// to the configured model defaults.
func NewService(orch *Orchestrator, repo repositories.MeetingRepository, cfg config.OllamaConfig, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		orch: orch,
		repo: repo,
		defaults: RunOptions{
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxAttempts: cfg.MaxAttempts,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunFromText analyses a meeting from an already captured transcript.
func (s *Service) RunFromText(ctx context.Context, transcript string, opts RunOptions) (*entities.Meeting, []Phase, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, nil, &ValidationError{Reason: "empty transcript"}
	}

	m := entities.NewMeeting(entities.InputKindText)
	m.TranscriptRaw = transcript
	return s.run(ctx, m, opts)
}

// RunFromAudio analyses a meeting starting from a stored audio reference.
func (s *Service) RunFromAudio(ctx context.Context, audioPath string, opts RunOptions) (*entities.Meeting, []Phase, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, nil, &ValidationError{Reason: "empty audio reference"}
	}

	m := entities.NewMeeting(entities.InputKindAudio)
	m.AudioPath = audioPath
	return s.run(ctx, m, opts)
}

func (s *Service) run(ctx context.Context, m *entities.Meeting, opts RunOptions) (*entities.Meeting, []Phase, error) {
	opts = s.fill(opts)
	m.ModelUsed = opts.Model

	started := time.Now()
	phases, err := s.orch.Run(ctx, m, opts)
	m.ProcessingTime = time.Since(started).Seconds()

	if err != nil {
		// Failed runs are reported, never stored.
		return m, phases, err
	}

	if m.InputKind == entities.InputKindAudio && s.archive != nil {
		ref, archiveErr := s.archive.Archive(ctx, m.AudioPath)
		if archiveErr != nil {
			// Archival is durability, not correctness. Keep the scratch
			// path rather than discarding a finished analysis.
			if s.logger != nil {
				s.logger.Warn("audio archive failed", zap.Error(archiveErr))
			}
		} else {
			m.AudioPath = ref
		}
	}

	if _, err := s.repo.Save(ctx, m); err != nil {
		return m, phases, err
	}

	if s.logger != nil {
		s.logger.Info("meeting analysis stored",
			zap.String("meeting_id", m.ID.String()),
			zap.String("input_kind", string(m.InputKind)),
			zap.Float64("processing_time", m.ProcessingTime),
		)
	}
	return m, phases, nil
}

func (s *Service) fill(opts RunOptions) RunOptions {
	if opts.Model == "" {
		opts.Model = s.defaults.Model
	}
	if opts.Temperature == 0 {
		opts.Temperature = s.defaults.Temperature
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = s.defaults.MaxAttempts
	}
	return opts
}
