package pipeline

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/johnquangdev/meeting-steward/internal/domain/agent"
	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
)

// AudioProcessor is the transcription cascade contract consumed by the
// transcriber stage. *transcribe.Service satisfies it.
type AudioProcessor interface {
	ProcessAudio(ctx context.Context, audioPath string) (string, []entities.Utterance, error)
}

// transcriberStage turns the meeting's audio reference into a transcript and
// speaker-tagged segments.
type transcriberStage struct {
	audio AudioProcessor
}

// NewTranscriberStage constructs the audio understanding stage.
func NewTranscriberStage(audio AudioProcessor) Stage {
	return &transcriberStage{audio: audio}
}

func (s *transcriberStage) Role() agent.Role { return agent.RoleTranscriber }
func (s *transcriberStage) Phase() Phase     { return PhaseTranscribing }

func (s *transcriberStage) Execute(ctx context.Context, m *entities.Meeting, _ RunOptions) (*entities.AgentMessage, error) {
	transcript, utterances, err := s.audio.ProcessAudio(ctx, m.AudioPath)
	if err != nil {
		return nil, err
	}

	m.TranscriptRaw = transcript
	m.Segments = datatypes.NewJSONSlice(utterances)

	speakers := make(map[string]struct{})
	for _, u := range utterances {
		speakers[u.Speaker] = struct{}{}
	}
	labels := make([]string, 0, len(speakers))
	for s := range speakers {
		labels = append(labels, s)
	}

	msg := entities.NewAgentMessage(
		agent.RoleTranscriber,
		agent.RoleSummarizer,
		fmt.Sprintf("Transcription complete: %d segments, %d characters", len(utterances), len(transcript)),
		map[string]any{
			"segment_count":     len(utterances),
			"transcript_length": len(transcript),
			"speakers":          labels,
		},
	)
	return &msg, nil
}
