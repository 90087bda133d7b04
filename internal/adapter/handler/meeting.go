package handler

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	meetingdto "github.com/johnquangdev/meeting-steward/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-steward/internal/adapter/presenter"
	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/internal/domain/repositories"
	"github.com/johnquangdev/meeting-steward/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-steward/pkg/config"
)

// Analyzer runs the meeting analysis workflow. *pipeline.Service satisfies
// it.
type Analyzer interface {
	RunFromText(ctx context.Context, transcript string, opts pipeline.RunOptions) (*entities.Meeting, []pipeline.Phase, error)
	RunFromAudio(ctx context.Context, audioPath string, opts pipeline.RunOptions) (*entities.Meeting, []pipeline.Phase, error)
}

// Meeting handles meeting analysis HTTP requests
type Meeting struct {
	svc    Analyzer
	repo   repositories.MeetingRepository
	cfg    *config.Config
	logger *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(svc Analyzer, repo repositories.MeetingRepository, cfg *config.Config, logger *zap.Logger) *Meeting {
	return &Meeting{
		svc:    svc,
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// AnalyzeText handles POST /meetings/text
func (h *Meeting) AnalyzeText(c echo.Context) error {
	var req meetingdto.AnalyzeTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	opts := pipeline.RunOptions{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxAttempts: req.MaxAttempts,
	}

	m, phases, err := h.svc.RunFromText(c.Request().Context(), req.Transcript, opts)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, presenter.ToMeetingResponse(m, phases))
}

// AnalyzeAudio handles POST /meetings/audio
func (h *Meeting) AnalyzeAudio(c echo.Context) error {
	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": "multipart field audio_file is required",
		})
	}

	localPath, err := h.saveUpload(fileHeader)
	if err != nil {
		return respondError(c, err)
	}
	defer os.Remove(localPath)

	opts, err := h.parseAudioOptions(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	m, phases, runErr := h.svc.RunFromAudio(c.Request().Context(), localPath, opts)
	if runErr != nil {
		return respondError(c, runErr)
	}

	return c.JSON(http.StatusCreated, presenter.ToMeetingResponse(m, phases))
}

// GetMeeting handles GET /meetings/:id
func (h *Meeting) GetMeeting(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": "meeting id must be a UUID",
		})
	}

	m, err := h.repo.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToMeetingResponse(m, nil))
}

// ListMeetings handles GET /meetings
func (h *Meeting) ListMeetings(c echo.Context) error {
	var req meetingdto.ListMeetingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	limit := req.Limit
	if limit <= 0 {
		limit = h.cfg.Pipeline.ListLimit
	}

	summaries, err := h.repo.List(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, presenter.ToListMeetingsResponse(summaries))
}

// saveUpload writes the uploaded audio into the local work directory so the
// transcription cascade can read it from disk.
func (h *Meeting) saveUpload(fileHeader *multipart.FileHeader) (string, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	workDir := h.cfg.Whisper.WorkDir
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}

	ext := filepath.Ext(fileHeader.Filename)
	localPath := filepath.Join(workDir, uuid.New().String()+ext)

	dst, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	if h.logger != nil {
		h.logger.Info("audio upload stored",
			zap.String("filename", fileHeader.Filename),
			zap.String("path", localPath),
		)
	}
	return localPath, nil
}

// parseAudioOptions reads the optional model tuning fields of the multipart
// form.
func (h *Meeting) parseAudioOptions(c echo.Context) (pipeline.RunOptions, error) {
	var opts pipeline.RunOptions

	opts.Model = strings.TrimSpace(c.FormValue("model"))

	if raw := strings.TrimSpace(c.FormValue("temperature")); raw != "" {
		temp, err := strconv.ParseFloat(raw, 64)
		if err != nil || temp < 0 || temp > 2 {
			return opts, fmt.Errorf("temperature must be a number between 0 and 2")
		}
		opts.Temperature = temp
	}

	if raw := strings.TrimSpace(c.FormValue("max_attempts")); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil || attempts < 1 || attempts > 10 {
			return opts, fmt.Errorf("max_attempts must be an integer between 1 and 10")
		}
		opts.MaxAttempts = attempts
	}

	return opts, nil
}
