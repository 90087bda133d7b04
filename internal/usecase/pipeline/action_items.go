package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-steward/internal/domain/agent"
	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/pkg/ai"
)

type actionItemPayload struct {
	ActionItems []struct {
		Description string `json:"description"`
		Owner       string `json:"owner"`
		DueDate     string `json:"due_date"`
		Priority    string `json:"priority"`
	} `json:"action_items"`
}

// actionItemStage extracts follow-up tasks from the meeting.
type actionItemStage struct {
	chat ChatClient
}

// NewActionItemStage constructs the action item extraction stage.
func NewActionItemStage(chat ChatClient) Stage {
	return &actionItemStage{chat: chat}
}

func (s *actionItemStage) Role() agent.Role { return agent.RoleActionItemAgent }
func (s *actionItemStage) Phase() Phase     { return PhaseExtractingActionItems }

func (s *actionItemStage) Execute(ctx context.Context, m *entities.Meeting, opts RunOptions) (*entities.AgentMessage, error) {
	messages := []ai.ChatMessage{
		{Role: "system", Content: actionItemSystemPrompt},
		{Role: "user", Content: buildActionItemPrompt(m.TranscriptRaw, m.Segments)},
	}

	content, err := s.chat.Generate(ctx, messages, opts.Model, opts.Temperature, opts.MaxAttempts)
	if err != nil {
		return nil, err
	}

	var payload actionItemPayload
	if err := ai.DecodeJSON(content, &payload); err != nil {
		var malformed *ai.MalformedResponseError
		if !errors.As(err, &malformed) {
			return nil, err
		}
		payload.ActionItems = nil
	}

	items := make([]entities.ActionItem, 0, len(payload.ActionItems))
	for _, a := range payload.ActionItems {
		if strings.TrimSpace(a.Description) == "" {
			continue
		}
		item := entities.NewActionItem(m.ID, strings.TrimSpace(a.Description))
		item.Owner = strings.TrimSpace(a.Owner)
		item.DueDate = strings.TrimSpace(a.DueDate)
		item.Priority = entities.NormalizePriority(a.Priority)
		items = append(items, item)
	}
	m.ActionItems = items

	msg := entities.NewAgentMessage(
		agent.RoleActionItemAgent,
		agent.RoleSteward,
		fmt.Sprintf("Action item extraction complete: %d items", len(items)),
		map[string]any{"action_item_count": len(items)},
	)
	return &msg, nil
}
