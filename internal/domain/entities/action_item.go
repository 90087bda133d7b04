package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ActionItemPriority levels
const (
	ActionItemPriorityLow    = "low"
	ActionItemPriorityMedium = "medium"
	ActionItemPriorityHigh   = "high"
)

// ActionItemStatus values
const (
	ActionItemStatusPending    = "pending"
	ActionItemStatusInProgress = "in_progress"
	ActionItemStatusCompleted  = "completed"
)

// ActionItem is a task extracted from the meeting. Stored in its own table
// keyed by its identity with a reference back to the owning meeting.
type ActionItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	MeetingID   uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Owner       string    `json:"owner,omitempty" gorm:"type:varchar(255)"`
	DueDate     string    `json:"due_date,omitempty" gorm:"type:varchar(100)"`
	Priority    string    `json:"priority" gorm:"type:varchar(10);default:medium"`
	Status      string    `json:"status" gorm:"type:varchar(20);default:pending"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ActionItem) TableName() string {
	return "action_items"
}

// NewActionItem creates an action item with a fresh identity and the default
// priority and status.
func NewActionItem(meetingID uuid.UUID, description string) ActionItem {
	return ActionItem{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Description: description,
		Priority:    ActionItemPriorityMedium,
		Status:      ActionItemStatusPending,
	}
}

// NormalizePriority maps free-form model output onto the closed priority set,
// falling back to medium.
func NormalizePriority(p string) string {
	switch lowered := strings.ToLower(strings.TrimSpace(p)); lowered {
	case ActionItemPriorityLow, ActionItemPriorityMedium, ActionItemPriorityHigh:
		return lowered
	default:
		return ActionItemPriorityMedium
	}
}
