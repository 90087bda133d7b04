package meeting

// AnalyzeTextRequest represents the request to analyze a captured transcript
type AnalyzeTextRequest struct {
	Transcript  string  `json:"transcript" validate:"required,min=1"`
	Model       string  `json:"model,omitempty"`
	Temperature float64 `json:"temperature,omitempty" validate:"omitempty,min=0,max=2"`
	MaxAttempts int     `json:"max_attempts,omitempty" validate:"omitempty,min=1,max=10"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=200"`
}
