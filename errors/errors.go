package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorCode classifies application errors for API consumers.
type ErrorCode string

const (
	ErrorCode_INTERNAL               ErrorCode = "INTERNAL"
	ErrorCode_INVALID_ARGUMENT       ErrorCode = "INVALID_ARGUMENT"
	ErrorCode_NOT_FOUND              ErrorCode = "NOT_FOUND"
	ErrorCode_VALIDATION_FAILED      ErrorCode = "VALIDATION_FAILED"
	ErrorCode_PIPELINE_FAILED        ErrorCode = "PIPELINE_FAILED"
	ErrorCode_MODEL_EXHAUSTED        ErrorCode = "MODEL_EXHAUSTED"
	ErrorCode_TRANSCRIPTION_FAILED   ErrorCode = "TRANSCRIPTION_FAILED"
	ErrorCode_AUDIO_ACQUISITION      ErrorCode = "AUDIO_ACQUISITION_FAILED"
	ErrorCode_INTEGRATION_STORAGE    ErrorCode = "INTEGRATION_STORAGE_FAILED"
	ErrorCode_INTEGRATION_CACHE      ErrorCode = "INTEGRATION_CACHE_FAILED"
	ErrorCode_DB_QUERY_FAILED        ErrorCode = "DB_QUERY_FAILED"
	ErrorCode_DB_CONNECTION_FAILED   ErrorCode = "DB_CONNECTION_FAILED"
	ErrorCode_AI_SERVICE_UNAVAILABLE ErrorCode = "AI_SERVICE_UNAVAILABLE"
)

// String implements fmt.Stringer
func (c ErrorCode) String() string {
	return string(c)
}

// AppError is the custom error type for the application.
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

// Pipeline Errors
func ErrPipelineValidation(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_VALIDATION_FAILED,
		Message:  "Pipeline input validation failed",
	}
}

func ErrPipelineFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_PIPELINE_FAILED,
		Message:  "Meeting analysis pipeline failed",
	}
}

func ErrModelExhausted(attempts int, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_MODEL_EXHAUSTED,
		Message:  "Language model did not respond after all retry attempts",
	}.WithDetail("attempts", fmt.Sprintf("%d", attempts))
}

func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_TRANSCRIPTION_FAILED,
		Message:  "Audio transcription failed",
	}
}

func ErrAudioAcquisition(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusUnprocessableEntity,
		Code:     ErrorCode_AUDIO_ACQUISITION,
		Message:  "Audio could not be loaded or normalized",
	}
}

func ErrAIServiceUnavailable(service string) AppError {
	return AppError{
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_AI_SERVICE_UNAVAILABLE,
		Message:  "AI service temporarily unavailable",
	}.WithDetail("service", service)
}

// Integration Errors
func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_STORAGE,
		Message:  fmt.Sprintf("Storage operation failed: %s", operation),
	}
}

func ErrCacheFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTEGRATION_CACHE,
		Message:  fmt.Sprintf("Cache operation failed: %s", operation),
	}
}

// Database Errors
func ErrDBConnectionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_CONNECTION_FAILED,
		Message:  "Database connection failed",
	}
}

func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}.WithDetail("query", query)
}
