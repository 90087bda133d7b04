package meeting

import "time"

// DecisionResponse represents one extracted decision
type DecisionResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
	Rationale   string `json:"rationale,omitempty"`
	Timestamp   string `json:"timestamp,omitempty"`
}

// ActionItemResponse represents one extracted action item
type ActionItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Owner       string `json:"owner,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// MessageResponse represents one entry of the agent message log
type MessageResponse struct {
	From      string         `json:"from"`
	To        string         `json:"to"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// UtteranceResponse represents one speaker-tagged transcript segment
type UtteranceResponse struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
}

// MeetingResponse represents a fully analyzed meeting
type MeetingResponse struct {
	ID             string               `json:"id"`
	CreatedAt      time.Time            `json:"created_at"`
	InputKind      string               `json:"input_kind"`
	AudioPath      string               `json:"audio_path,omitempty"`
	Transcript     string               `json:"transcript"`
	Segments       []UtteranceResponse  `json:"segments,omitempty"`
	Summary        []string             `json:"summary"`
	Decisions      []DecisionResponse   `json:"decisions"`
	ActionItems    []ActionItemResponse `json:"action_items"`
	Messages       []MessageResponse    `json:"messages"`
	Phases         []string             `json:"phases,omitempty"`
	ModelUsed      string               `json:"model_used"`
	ProcessingTime float64              `json:"processing_time"`
}

// MeetingSummaryResponse represents one row of the meeting list
type MeetingSummaryResponse struct {
	ID                string `json:"id"`
	CreatedAt         string `json:"created_at"`
	InputKind         string `json:"input_kind"`
	TranscriptPreview string `json:"transcript_preview"`
	ModelUsed         string `json:"model_used"`
}

// ListMeetingsResponse represents the meeting list payload
type ListMeetingsResponse struct {
	Meetings []MeetingSummaryResponse `json:"meetings"`
	Count    int                      `json:"count"`
}
