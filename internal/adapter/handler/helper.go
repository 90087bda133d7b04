package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-steward/errors"
	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-steward/internal/usecase/transcribe"
	"github.com/johnquangdev/meeting-steward/pkg/ai"
)

// respondError maps application errors onto HTTP responses.
func respondError(c echo.Context, err error) error {
	appErr := toAppError(err)
	return c.JSON(appErr.HTTPCode, map[string]interface{}{
		"error":   appErr.Code.String(),
		"message": appErr.Message,
		"details": appErr.Details,
	})
}

func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	var validationErr *pipeline.ValidationError
	if stdErrors.As(err, &validationErr) {
		return errors.ErrPipelineValidation(err)
	}

	var exhausted *ai.ExhaustedError
	if stdErrors.As(err, &exhausted) {
		return errors.ErrModelExhausted(exhausted.Attempts, err)
	}

	var acquisition *transcribe.AcquisitionError
	if stdErrors.As(err, &acquisition) {
		return errors.ErrAudioAcquisition(err)
	}

	if stdErrors.Is(err, entities.ErrMeetingNotFound) {
		return errors.ErrNotFound("meeting")
	}
	if stdErrors.Is(err, entities.ErrInvalidRoute) {
		return errors.ErrPipelineFailed(err)
	}

	return errors.ErrInternal(err)
}
