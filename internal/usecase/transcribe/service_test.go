package transcribe

import (
	"context"
	"errors"
	"testing"

	"github.com/johnquangdev/meeting-steward/pkg/config"
	"github.com/johnquangdev/meeting-steward/pkg/speech"
)

type fakeRecognizer struct {
	alignedSpans []speech.Span
	alignedErr   error
	plainSpans   []speech.Span
	plainErr     error
	turns        []speech.Turn
	diarizeErr   error

	alignedCalls int
	plainCalls   int
}

func (f *fakeRecognizer) RecognizeAligned(ctx context.Context, path string) ([]speech.Span, error) {
	f.alignedCalls++
	return f.alignedSpans, f.alignedErr
}

func (f *fakeRecognizer) Recognize(ctx context.Context, path string) ([]speech.Span, error) {
	f.plainCalls++
	return f.plainSpans, f.plainErr
}

func (f *fakeRecognizer) Diarize(ctx context.Context, path string) ([]speech.Turn, error) {
	return f.turns, f.diarizeErr
}

func passthroughNormalizer(ctx context.Context, path string) (string, error) {
	return path, nil
}

func newTestService(rec Recognizer) *Service {
	cfg := &config.WhisperConfig{SampleRate: 16000, WorkDir: "."}
	return NewService(rec, cfg, "SPEAKER_00", nil, WithNormalizer(passthroughNormalizer))
}

func TestProcessAudio_FullTierWithDiarization(t *testing.T) {
	rec := &fakeRecognizer{
		alignedSpans: []speech.Span{
			{Start: 0, End: 2, Text: "hello everyone"},
			{Start: 2, End: 5, Text: "let us begin"},
		},
		turns: []speech.Turn{
			{Start: 0, End: 2.1, Speaker: "SPEAKER_01"},
			{Start: 2.1, End: 5, Speaker: "SPEAKER_02"},
		},
	}

	transcript, utterances, err := newTestService(rec).ProcessAudio(context.Background(), "meeting.wav")
	if err != nil {
		t.Fatalf("ProcessAudio failed: %v", err)
	}
	if transcript != "hello everyone let us begin" {
		t.Errorf("unexpected transcript %q", transcript)
	}
	if utterances[0].Speaker != "SPEAKER_01" || utterances[1].Speaker != "SPEAKER_02" {
		t.Errorf("speaker assignment wrong: %+v", utterances)
	}
}

func TestProcessAudio_DiarizationFailureRecoversInTier(t *testing.T) {
	rec := &fakeRecognizer{
		alignedSpans: []speech.Span{
			{Start: 0, End: 1, Text: "one"},
			{Start: 1, End: 2, Text: "two"},
		},
		diarizeErr: errors.New("pyannote models not configured"),
	}

	_, utterances, err := newTestService(rec).ProcessAudio(context.Background(), "meeting.wav")
	if err != nil {
		t.Fatalf("diarization failure must not fail the run: %v", err)
	}
	for _, u := range utterances {
		if u.Speaker != "SPEAKER_00" {
			t.Errorf("expected default speaker, got %q", u.Speaker)
		}
	}
	if rec.plainCalls != 0 {
		t.Error("diarization failure must not trigger the degraded tier")
	}
}

func TestProcessAudio_FullTierDownFallsBackToDegraded(t *testing.T) {
	rec := &fakeRecognizer{
		alignedErr: errors.New("alignment model unavailable"),
		plainSpans: []speech.Span{{Start: 0, End: 3, Text: "degraded text"}},
	}

	transcript, utterances, err := newTestService(rec).ProcessAudio(context.Background(), "meeting.wav")
	if err != nil {
		t.Fatalf("degraded tier should succeed: %v", err)
	}
	if transcript != "degraded text" {
		t.Errorf("unexpected transcript %q", transcript)
	}
	if utterances[0].Speaker != "SPEAKER_00" {
		t.Errorf("degraded tier must use the default speaker, got %q", utterances[0].Speaker)
	}
	if rec.alignedCalls != 1 || rec.plainCalls != 1 {
		t.Errorf("expected one call per tier, got aligned=%d plain=%d", rec.alignedCalls, rec.plainCalls)
	}
}

func TestProcessAudio_BothTiersDownIsFatal(t *testing.T) {
	rec := &fakeRecognizer{
		alignedErr: errors.New("down"),
		plainErr:   errors.New("also down"),
	}

	_, _, err := newTestService(rec).ProcessAudio(context.Background(), "meeting.wav")

	var acq *AcquisitionError
	if !errors.As(err, &acq) {
		t.Fatalf("expected AcquisitionError, got %v", err)
	}
	if acq.Step != "transcribe" {
		t.Errorf("expected transcribe step, got %q", acq.Step)
	}
}

func TestProcessAudio_NormalizationFailureIsFatal(t *testing.T) {
	rec := &fakeRecognizer{}
	cfg := &config.WhisperConfig{SampleRate: 16000, WorkDir: "."}
	svc := NewService(rec, cfg, "SPEAKER_00", nil, WithNormalizer(
		func(ctx context.Context, path string) (string, error) {
			return "", errors.New("codec not supported")
		},
	))

	_, _, err := svc.ProcessAudio(context.Background(), "meeting.mp3")

	var acq *AcquisitionError
	if !errors.As(err, &acq) {
		t.Fatalf("expected AcquisitionError, got %v", err)
	}
	if acq.Step != "normalize" {
		t.Errorf("expected normalize step, got %q", acq.Step)
	}
	if rec.alignedCalls != 0 {
		t.Error("no tier may run after a normalization failure")
	}
}

func TestProcessAudio_WavSkipsNormalization(t *testing.T) {
	rec := &fakeRecognizer{
		alignedSpans: []speech.Span{{Start: 0, End: 1, Text: "ok"}},
	}
	cfg := &config.WhisperConfig{SampleRate: 16000, WorkDir: "."}
	svc := NewService(rec, cfg, "SPEAKER_00", nil, WithNormalizer(
		func(ctx context.Context, path string) (string, error) {
			t.Fatal("wav input must not be normalized")
			return "", nil
		},
	))

	if _, _, err := svc.ProcessAudio(context.Background(), "already.WAV"); err != nil {
		t.Fatalf("ProcessAudio failed: %v", err)
	}
}
