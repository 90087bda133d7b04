package transcribe

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/pkg/config"
	"github.com/johnquangdev/meeting-steward/pkg/speech"
)

// Recognizer is the speech-understanding backend contract consumed by the
// cascade. *speech.WhisperClient satisfies it.
type Recognizer interface {
	RecognizeAligned(ctx context.Context, audioPath string) ([]speech.Span, error)
	Recognize(ctx context.Context, audioPath string) ([]speech.Span, error)
	Diarize(ctx context.Context, audioPath string) ([]speech.Turn, error)
}

// Service turns an audio file into an ordered utterance list and a derived
// transcript, degrading through tiers when the richer machinery is
// unavailable.
type Service struct {
	rec            Recognizer
	normalize      NormalizeFunc
	defaultSpeaker string
	logger         *zap.Logger
}

// Option customizes the service.
type Option func(*Service)

// WithNormalizer overrides the audio normalizer (primarily for tests).
func WithNormalizer(n NormalizeFunc) Option {
	return func(s *Service) {
		if n != nil {
			s.normalize = n
		}
	}
}

// NewService constructs the transcription service.
func NewService(rec Recognizer, cfg *config.WhisperConfig, defaultSpeaker string, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		rec:            rec,
		normalize:      ffmpegNormalizer(cfg.SampleRate, cfg.WorkDir),
		defaultSpeaker: defaultSpeaker,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessAudio is the transcription entry point. Normalization failure and
// the failure of both tiers are fatal; everything else degrades to a valid
// single-speaker result.
func (s *Service) ProcessAudio(ctx context.Context, audioPath string) (string, []entities.Utterance, error) {
	path := audioPath
	if !strings.EqualFold(filepath.Ext(path), ".wav") {
		converted, err := s.normalize(ctx, audioPath)
		if err != nil {
			return "", nil, &AcquisitionError{Step: "normalize", Err: err}
		}
		path = converted
	}

	utterances, err := s.fullTier(ctx, path)
	if err != nil {
		s.warn("full transcription tier unavailable, falling back", zap.Error(err))
		utterances, err = s.degradedTier(ctx, path)
		if err != nil {
			return "", nil, &AcquisitionError{Step: "transcribe", Err: err}
		}
	}

	return joinTranscript(utterances), utterances, nil
}

// fullTier runs recognition with alignment, then diarization. A diarization
// failure is recovered inside the tier with uniform speaker labels; only a
// recognition failure escapes to trigger the degraded tier.
func (s *Service) fullTier(ctx context.Context, audioPath string) ([]entities.Utterance, error) {
	spans, err := s.rec.RecognizeAligned(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	turns, err := s.rec.Diarize(ctx, audioPath)
	if err != nil {
		s.warn("diarization failed, using default speaker labels", zap.Error(err))
		return s.label(spans, nil), nil
	}
	return s.label(spans, turns), nil
}

// degradedTier runs recognition without alignment refinement; all spans get
// the default speaker.
func (s *Service) degradedTier(ctx context.Context, audioPath string) ([]entities.Utterance, error) {
	spans, err := s.rec.Recognize(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	return s.label(spans, nil), nil
}

// label builds utterances from spans, assigning each span the speaker of the
// diarization turn it overlaps most. A nil turn list yields uniform default
// labels.
func (s *Service) label(spans []speech.Span, turns []speech.Turn) []entities.Utterance {
	utterances := make([]entities.Utterance, 0, len(spans))
	for _, span := range spans {
		utterances = append(utterances, entities.Utterance{
			Start:   span.Start,
			End:     span.End,
			Speaker: s.speakerFor(span, turns),
			Text:    strings.TrimSpace(span.Text),
		})
	}
	return utterances
}

func (s *Service) speakerFor(span speech.Span, turns []speech.Turn) string {
	best := s.defaultSpeaker
	bestOverlap := 0.0
	for _, turn := range turns {
		overlap := min(span.End, turn.End) - max(span.Start, turn.Start)
		if overlap > bestOverlap {
			bestOverlap = overlap
			best = turn.Speaker
		}
	}
	return best
}

func joinTranscript(utterances []entities.Utterance) string {
	texts := make([]string, 0, len(utterances))
	for _, u := range utterances {
		texts = append(texts, u.Text)
	}
	return strings.Join(texts, " ")
}

func (s *Service) warn(msg string, fields ...zap.Field) {
	if s.logger != nil {
		s.logger.Warn(msg, fields...)
	}
}
