package pipeline

import "fmt"

// ValidationError reports a missing required precondition (no audio
// reference, empty transcript). Fatal; the run aborts without retrying and
// nothing is persisted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pipeline validation failed: %s", e.Reason)
}
