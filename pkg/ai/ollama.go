package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-steward/pkg/config"
)

// ChatMessage is one role-tagged message in a generation request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaClient is a client for the Ollama HTTP API with per-call retries.
type OllamaClient struct {
	host         string
	defaultModel string
	maxAttempts  int
	baseDelay    time.Duration
	client       *http.Client
	logger       *zap.Logger
}

// NewOllamaClient creates an Ollama client from the provided config.
func NewOllamaClient(cfg *config.OllamaConfig, logger *zap.Logger) *OllamaClient {
	host := strings.TrimRight(cfg.Host, "/")
	return &OllamaClient{
		host:         host,
		defaultModel: cfg.Model,
		maxAttempts:  cfg.MaxAttempts,
		baseDelay:    cfg.BaseDelay,
		client:       &http.Client{Timeout: cfg.Timeout},
		logger:       logger,
	}
}

// DefaultModel returns the model used when callers pass an empty model id.
func (c *OllamaClient) DefaultModel() string {
	return c.defaultModel
}

// chatRequest is the shape for /api/chat requests
type chatRequest struct {
	Model    string         `json:"model"`
	Messages []ChatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

// chatResponse is a minimal response shape
type chatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// EnsureModelAvailable checks the backend's known-model set and requests a
// pull when the model is unlisted. Best effort: a failed check or pull is
// logged and generation proceeds anyway, so the chat call surfaces the real
// error.
func (c *OllamaClient) EnsureModelAvailable(ctx context.Context, model string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.warn("model listing failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.warn("model listing failed", zap.Int("status", resp.StatusCode))
		return false
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		c.warn("model listing decode failed", zap.Error(err))
		return false
	}

	for _, m := range tags.Models {
		if m.Name == model || strings.SplitN(m.Name, ":", 2)[0] == model {
			return true
		}
	}

	c.warn("model not found locally, requesting pull", zap.String("model", model))
	return c.pullModel(ctx, model)
}

// pullModel asks the backend to fetch a model. Failure is non-fatal.
func (c *OllamaClient) pullModel(ctx context.Context, model string) bool {
	body, _ := json.Marshal(map[string]any{"name": model, "stream": false})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/pull", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.warn("model pull failed", zap.String("model", model), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.warn("model pull failed", zap.String("model", model), zap.Int("status", resp.StatusCode))
		return false
	}
	return true
}

// Generate sends a chat completion request and returns the assistant content.
// Transient failures (network, timeout, empty body) are retried with
// exponential backoff; after maxAttempts the last error is returned wrapped
// in an ExhaustedError. An empty maxAttempts (< 1) uses the configured
// default, an empty model uses the default model.
func (c *OllamaClient) Generate(ctx context.Context, messages []ChatMessage, model string, temperature float64, maxAttempts int) (string, error) {
	if model == "" {
		model = c.defaultModel
	}
	if maxAttempts < 1 {
		maxAttempts = c.maxAttempts
	}

	c.EnsureModelAvailable(ctx, model)

	payload := chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options:  map[string]any{"temperature": temperature},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	var (
		content  string
		attempts int
		lastErr  error
	)

	operation := func() error {
		attempts++
		text, err := c.chatOnce(ctx, body)
		if err != nil {
			lastErr = err
			c.warn("chat attempt failed",
				zap.Int("attempt", attempts),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err),
			)
			return err
		}
		content = text
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.baseDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxInterval = 60 * time.Second
	bo.MaxElapsedTime = 0 // attempt count is the only budget

	if err := backoff.Retry(operation, backoff.WithMaxRetries(bo, uint64(maxAttempts-1))); err != nil {
		return "", &ExhaustedError{Attempts: attempts, Err: lastErr}
	}
	return content, nil
}

// chatOnce issues a single /api/chat call. An empty content body is a
// failure, not a success.
func (c *OllamaClient) chatOnce(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if cr.Message.Content == "" {
		return "", fmt.Errorf("empty response from ollama")
	}
	return cr.Message.Content, nil
}

func (c *OllamaClient) warn(msg string, fields ...zap.Field) {
	if c.logger != nil {
		c.logger.Warn(msg, fields...)
	}
}
