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

type decisionPayload struct {
	Decisions []struct {
		Description string `json:"description"`
		Owner       string `json:"owner"`
		Rationale   string `json:"rationale"`
		Timestamp   string `json:"timestamp"`
	} `json:"decisions"`
}

// decisionStage extracts the key decisions reached in the meeting.
type decisionStage struct {
	chat ChatClient
}

// NewDecisionStage constructs the decision extraction stage.
func NewDecisionStage(chat ChatClient) Stage {
	return &decisionStage{chat: chat}
}

func (s *decisionStage) Role() agent.Role { return agent.RoleDecisionExtract }
func (s *decisionStage) Phase() Phase     { return PhaseExtractingDecisions }

func (s *decisionStage) Execute(ctx context.Context, m *entities.Meeting, opts RunOptions) (*entities.AgentMessage, error) {
	messages := []ai.ChatMessage{
		{Role: "system", Content: decisionSystemPrompt},
		{Role: "user", Content: buildDecisionPrompt(m.TranscriptRaw, m.Segments)},
	}

	content, err := s.chat.Generate(ctx, messages, opts.Model, opts.Temperature, opts.MaxAttempts)
	if err != nil {
		return nil, err
	}

	var payload decisionPayload
	if err := ai.DecodeJSON(content, &payload); err != nil {
		var malformed *ai.MalformedResponseError
		if !errors.As(err, &malformed) {
			return nil, err
		}
		// Unparseable extraction yields an empty list, not a failed run.
		payload.Decisions = nil
	}

	decisions := make([]entities.KeyDecision, 0, len(payload.Decisions))
	for _, d := range payload.Decisions {
		if strings.TrimSpace(d.Description) == "" {
			continue
		}
		decision := entities.NewKeyDecision(m.ID, strings.TrimSpace(d.Description))
		decision.Owner = strings.TrimSpace(d.Owner)
		decision.Rationale = strings.TrimSpace(d.Rationale)
		decision.Timestamp = strings.TrimSpace(d.Timestamp)
		decisions = append(decisions, decision)
	}
	m.Decisions = decisions

	msg := entities.NewAgentMessage(
		agent.RoleDecisionExtract,
		agent.RoleActionItemAgent,
		fmt.Sprintf("Decision extraction complete: %d decisions", len(decisions)),
		map[string]any{"decision_count": len(decisions)},
	)
	return &msg, nil
}
