package transcribe

import "fmt"

// AcquisitionError reports that audio could not be turned into a transcript
// at all: normalization failed, or every transcription tier failed. Fatal to
// the run; no synthetic transcript is fabricated.
type AcquisitionError struct {
	Step string // "normalize" or "transcribe"
	Err  error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("audio acquisition failed at %s: %v", e.Step, e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
