package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/johnquangdev/meeting-steward/internal/domain/agent"
)

// AgentMessage is one entry in a meeting's inter-agent communication log.
// Messages are append-only: once in the log they are never modified or
// removed.
type AgentMessage struct {
	ID        uuid.UUID      `json:"id"`
	From      agent.Role     `json:"from_agent"`
	To        agent.Role     `json:"to_agent"`
	Content   string         `json:"content"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewAgentMessage creates a message with a fresh identity and the current
// time. Route validity is the orchestrator's concern, not the constructor's.
func NewAgentMessage(from, to agent.Role, content string, payload map[string]any) AgentMessage {
	return AgentMessage{
		ID:        uuid.New(),
		From:      from,
		To:        to,
		Content:   content,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}
