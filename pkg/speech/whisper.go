package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/johnquangdev/meeting-steward/pkg/config"
)

// Span is a timed text span returned by speech recognition.
type Span struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Turn is a speaker turn returned by diarization.
type Turn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// WhisperClient is a minimal client for a whisper-style speech service.
type WhisperClient struct {
	host   string
	client *http.Client
}

// NewWhisperClient creates a speech client from the provided config.
func NewWhisperClient(cfg *config.WhisperConfig) *WhisperClient {
	return &WhisperClient{
		host:   strings.TrimRight(cfg.Host, "/"),
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type recognizeResponse struct {
	Segments []Span `json:"segments"`
}

type diarizeResponse struct {
	Turns []Turn `json:"turns"`
}

// RecognizeAligned runs the full recognition + alignment path. The server
// refuses with an error status when the alignment machinery is not loaded.
func (c *WhisperClient) RecognizeAligned(ctx context.Context, audioPath string) ([]Span, error) {
	var out recognizeResponse
	if err := c.postAudio(ctx, "/v1/recognize?aligned=true", audioPath, &out); err != nil {
		return nil, err
	}
	return out.Segments, nil
}

// Recognize runs the plain recognition path without alignment refinement.
func (c *WhisperClient) Recognize(ctx context.Context, audioPath string) ([]Span, error) {
	var out recognizeResponse
	if err := c.postAudio(ctx, "/v1/recognize?aligned=false", audioPath, &out); err != nil {
		return nil, err
	}
	return out.Segments, nil
}

// Diarize returns speaker turns for the audio. Diarization has external
// model dependencies that may be unconfigured; callers treat failure as a
// recoverable degradation.
func (c *WhisperClient) Diarize(ctx context.Context, audioPath string) ([]Turn, error) {
	var out diarizeResponse
	if err := c.postAudio(ctx, "/v1/diarize", audioPath, &out); err != nil {
		return nil, err
	}
	return out.Turns, nil
}

// postAudio uploads the audio file as multipart form data and decodes the
// JSON response into out.
func (c *WhisperClient) postAudio(ctx context.Context, path, audioPath string, out any) error {
	f, err := os.Open(audioPath)
	if err != nil {
		return fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio_file", filepath.Base(audioPath))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("speech service returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
