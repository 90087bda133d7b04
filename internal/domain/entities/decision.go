package entities

import (
	"time"

	"github.com/google/uuid"
)

// KeyDecision is a decision extracted from the meeting. Stored in its own
// table keyed by its identity with a reference back to the owning meeting.
type KeyDecision struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	MeetingID   uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Owner       string    `json:"owner,omitempty" gorm:"type:varchar(255)"`
	Timestamp   string    `json:"timestamp,omitempty" gorm:"type:varchar(100)"`
	Rationale   string    `json:"rationale,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (KeyDecision) TableName() string {
	return "decisions"
}

// NewKeyDecision creates a decision with a fresh identity. Identifiers are
// never reused across meetings.
func NewKeyDecision(meetingID uuid.UUID, description string) KeyDecision {
	return KeyDecision{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Description: description,
	}
}
