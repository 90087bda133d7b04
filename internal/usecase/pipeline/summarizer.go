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

// ChatClient is the language model contract consumed by the analysis stages.
// *ai.OllamaClient satisfies it.
type ChatClient interface {
	Generate(ctx context.Context, messages []ai.ChatMessage, model string, temperature float64, maxAttempts int) (string, error)
}

type summaryPayload struct {
	Bullets []string `json:"bullets"`
}

// summarizerStage distills the transcript into an executive summary.
type summarizerStage struct {
	chat ChatClient
}

// NewSummarizerStage constructs the summarization stage.
func NewSummarizerStage(chat ChatClient) Stage {
	return &summarizerStage{chat: chat}
}

func (s *summarizerStage) Role() agent.Role { return agent.RoleSummarizer }
func (s *summarizerStage) Phase() Phase     { return PhaseSummarizing }

func (s *summarizerStage) Execute(ctx context.Context, m *entities.Meeting, opts RunOptions) (*entities.AgentMessage, error) {
	messages := []ai.ChatMessage{
		{Role: "system", Content: summarizerSystemPrompt},
		{Role: "user", Content: buildSummarizerPrompt(m.TranscriptRaw, m.Segments)},
	}

	content, err := s.chat.Generate(ctx, messages, opts.Model, opts.Temperature, opts.MaxAttempts)
	if err != nil {
		return nil, err
	}

	var payload summaryPayload
	if err := ai.DecodeJSON(content, &payload); err != nil {
		var malformed *ai.MalformedResponseError
		if !errors.As(err, &malformed) {
			return nil, err
		}
		// The model answered in prose. Keep the text rather than failing
		// the whole run.
		payload.Bullets = []string{strings.TrimSpace(content)}
	}

	m.Summary = &entities.ExecutiveSummary{Bullets: payload.Bullets}

	msg := entities.NewAgentMessage(
		agent.RoleSummarizer,
		agent.RoleDecisionExtract,
		fmt.Sprintf("Summary complete: %d bullet points", len(payload.Bullets)),
		map[string]any{"bullets": payload.Bullets},
	)
	return &msg, nil
}
