package entities

import "errors"

// Domain errors
var (
	ErrMeetingNotFound  = errors.New("meeting not found")
	ErrInvalidInputKind = errors.New("invalid input kind")
	ErrInvalidRoute     = errors.New("message route not allowed by policy")
)
