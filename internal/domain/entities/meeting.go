package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// InputKind tells the pipeline which entry stage a meeting needs.
type InputKind string

const (
	InputKindAudio InputKind = "audio"
	InputKindText  InputKind = "text"
)

// Valid reports whether the input kind is one of the known values.
func (k InputKind) Valid() bool {
	return k == InputKindAudio || k == InputKindText
}

// Utterance is a single timed, speaker-tagged span of the transcript.
// Produced by the transcriber stage and immutable afterwards.
type Utterance struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
}

// ExecutiveSummary is the summarizer stage's artifact.
type ExecutiveSummary struct {
	Bullets []string `json:"bullets"`
}

// Meeting is the aggregate root for one pipeline run. It is owned
// exclusively by the orchestrator while the run is active and handed to the
// repository exactly once after the run completes.
type Meeting struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `json:"created_at" gorm:"not null"`

	InputKind InputKind `json:"input_kind" gorm:"type:varchar(10);not null"`
	AudioPath string    `json:"audio_path,omitempty" gorm:"type:varchar(512)"`

	TranscriptRaw string                         `json:"transcript_raw" gorm:"type:text"`
	Segments      datatypes.JSONSlice[Utterance] `json:"segments,omitempty" gorm:"type:jsonb"`

	Summary     *ExecutiveSummary `json:"summary,omitempty" gorm:"type:jsonb;serializer:json"`
	Decisions   []KeyDecision     `json:"decisions" gorm:"foreignKey:MeetingID;references:ID"`
	ActionItems []ActionItem      `json:"action_items" gorm:"foreignKey:MeetingID;references:ID"`

	Messages datatypes.JSONSlice[AgentMessage] `json:"agent_messages" gorm:"type:jsonb"`

	ModelUsed      string  `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	ProcessingTime float64 `json:"processing_time,omitempty"` // seconds
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting aggregate with a fresh identity.
func NewMeeting(kind InputKind) *Meeting {
	return &Meeting{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		InputKind: kind,
	}
}

// AppendMessage adds one message to the end of the meeting's log. Existing
// entries are never altered or reordered; append order is stage execution
// order.
func (m *Meeting) AppendMessage(msg AgentMessage) {
	m.Messages = append(m.Messages, msg)
}
