package ai

import "fmt"

// ExhaustedError reports that every retry attempt for a single generation
// call failed. It is fatal to the enclosing stage.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports that the backend returned text that could
// not be parsed as structured data. Callers degrade to a fallback artifact;
// this error never aborts a run.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
