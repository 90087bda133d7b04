package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
)

// MeetingSummary is the light projection returned by listings.
type MeetingSummary struct {
	ID                uuid.UUID          `json:"id"`
	CreatedAt         string             `json:"created_at"`
	InputKind         entities.InputKind `json:"input_kind"`
	TranscriptPreview string             `json:"transcript_preview"`
	ModelUsed         string             `json:"model_used,omitempty"`
}

// MeetingRepository is the persistence contract for completed meetings.
// Save is an idempotent upsert keyed by the meeting's identity.
type MeetingRepository interface {
	Save(ctx context.Context, meeting *entities.Meeting) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)
	List(ctx context.Context, limit int) ([]MeetingSummary, error)
}
