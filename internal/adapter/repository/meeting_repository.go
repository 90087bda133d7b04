package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/internal/domain/repositories"
)

const previewLength = 120

// MeetingRepository implements the meeting repository interface using GORM
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{
		db: db,
	}
}

// Save persists the meeting aggregate with its decisions and action items.
// Re-saving the same meeting replaces the previous row.
func (r *MeetingRepository) Save(ctx context.Context, m *entities.Meeting) (uuid.UUID, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Omit("Decisions", "ActionItems").Create(m).Error; err != nil {
			return fmt.Errorf("failed to save meeting: %w", err)
		}

		// Children are rewritten wholesale. Extraction always produces the
		// complete set, so stale rows from an earlier save must go.
		if err := tx.Where("meeting_id = ?", m.ID).Delete(&entities.KeyDecision{}).Error; err != nil {
			return fmt.Errorf("failed to clear decisions: %w", err)
		}
		if err := tx.Where("meeting_id = ?", m.ID).Delete(&entities.ActionItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear action items: %w", err)
		}

		if len(m.Decisions) > 0 {
			if err := tx.Create(&m.Decisions).Error; err != nil {
				return fmt.Errorf("failed to save decisions: %w", err)
			}
		}
		if len(m.ActionItems) > 0 {
			if err := tx.Create(&m.ActionItems).Error; err != nil {
				return fmt.Errorf("failed to save action items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return m.ID, nil
}

// Get loads a meeting with its decisions and action items.
func (r *MeetingRepository) Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var m entities.Meeting
	if err := r.db.WithContext(ctx).
		Preload("Decisions").
		Preload("ActionItems").
		Where("id = ?", id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting by ID: %w", err)
	}
	return &m, nil
}

// List returns lightweight summaries of the most recent meetings.
func (r *MeetingRepository) List(ctx context.Context, limit int) ([]repositories.MeetingSummary, error) {
	var meetings []entities.Meeting
	if err := r.db.WithContext(ctx).
		Select("id", "created_at", "input_kind", "transcript_raw", "model_used").
		Order("created_at DESC").
		Limit(limit).
		Find(&meetings).Error; err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}

	summaries := make([]repositories.MeetingSummary, 0, len(meetings))
	for _, m := range meetings {
		preview := m.TranscriptRaw
		if len(preview) > previewLength {
			preview = preview[:previewLength]
		}
		summaries = append(summaries, repositories.MeetingSummary{
			ID:                m.ID,
			CreatedAt:         m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			InputKind:         m.InputKind,
			TranscriptPreview: preview,
			ModelUsed:         m.ModelUsed,
		})
	}
	return summaries, nil
}
