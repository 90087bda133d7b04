package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-steward/internal/domain/agent"
	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/internal/domain/repositories"
	"github.com/johnquangdev/meeting-steward/pkg/ai"
	"github.com/johnquangdev/meeting-steward/pkg/config"
)

// fakeChat routes each Generate call to a canned response keyed by the stage's
// system prompt.
type fakeChat struct {
	summary     string
	summaryErr  error
	decisions   string
	decisionErr error
	actions     string
	actionErr   error

	calls []string
}

func (f *fakeChat) Generate(_ context.Context, messages []ai.ChatMessage, _ string, _ float64, _ int) (string, error) {
	system := messages[0].Content
	switch {
	case strings.Contains(system, "meeting summarizer"):
		f.calls = append(f.calls, "summarizer")
		return f.summary, f.summaryErr
	case strings.Contains(system, "extracting key decisions"):
		f.calls = append(f.calls, "decisions")
		return f.decisions, f.decisionErr
	case strings.Contains(system, "extracting action items"):
		f.calls = append(f.calls, "actions")
		return f.actions, f.actionErr
	}
	return "", errors.New("unexpected prompt")
}

type fakeAudio struct {
	transcript string
	utterances []entities.Utterance
	err        error
}

func (f *fakeAudio) ProcessAudio(_ context.Context, _ string) (string, []entities.Utterance, error) {
	return f.transcript, f.utterances, f.err
}

type fakeRepo struct {
	saved []*entities.Meeting
}

func (f *fakeRepo) Save(_ context.Context, m *entities.Meeting) (uuid.UUID, error) {
	f.saved = append(f.saved, m)
	return m.ID, nil
}

func (f *fakeRepo) Get(_ context.Context, _ uuid.UUID) (*entities.Meeting, error) {
	return nil, entities.ErrMeetingNotFound
}

func (f *fakeRepo) List(_ context.Context, _ int) ([]repositories.MeetingSummary, error) {
	return nil, nil
}

func happyChat() *fakeChat {
	return &fakeChat{
		summary:   `{"bullets": ["Roadmap agreed", "Budget approved"]}`,
		decisions: `{"decisions": [{"description": "Ship v2 in March", "owner": "Dana", "rationale": "Customer commitments", "timestamp": "00:12"}]}`,
		actions:   `{"action_items": [{"description": "Draft release notes", "owner": "Kim", "due_date": "Friday", "priority": "high"}]}`,
	}
}

func newTestService(chat ChatClient, audio AudioProcessor, repo repositories.MeetingRepository) *Service {
	orch := NewOrchestrator(
		NewTranscriberStage(audio),
		NewSummarizerStage(chat),
		NewDecisionStage(chat),
		NewActionItemStage(chat),
		nil,
	)
	cfg := config.OllamaConfig{Model: "llama3.2", Temperature: 0.2, MaxAttempts: 3}
	return NewService(orch, repo, cfg, nil)
}

func TestRunFromText_FullAnalysis(t *testing.T) {
	chat := happyChat()
	repo := &fakeRepo{}
	svc := newTestService(chat, &fakeAudio{}, repo)

	m, phases, err := svc.RunFromText(context.Background(), "Alice: let's plan the release.", RunOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPhases := []Phase{PhaseStart, PhaseSummarizing, PhaseExtractingDecisions, PhaseExtractingActionItems, PhaseDone}
	if len(phases) != len(wantPhases) {
		t.Fatalf("phases = %v, want %v", phases, wantPhases)
	}
	for i, p := range wantPhases {
		if phases[i] != p {
			t.Errorf("phase[%d] = %s, want %s", i, phases[i], p)
		}
	}

	if m.Summary == nil || len(m.Summary.Bullets) != 2 {
		t.Errorf("summary = %+v, want 2 bullets", m.Summary)
	}
	if len(m.Decisions) != 1 || m.Decisions[0].Owner != "Dana" {
		t.Errorf("decisions = %+v", m.Decisions)
	}
	if len(m.ActionItems) != 1 || m.ActionItems[0].Priority != entities.ActionItemPriorityHigh {
		t.Errorf("action items = %+v", m.ActionItems)
	}
	if m.ModelUsed != "llama3.2" {
		t.Errorf("model used = %q", m.ModelUsed)
	}

	wantRoutes := [][2]agent.Role{
		{agent.RoleSummarizer, agent.RoleDecisionExtract},
		{agent.RoleDecisionExtract, agent.RoleActionItemAgent},
		{agent.RoleActionItemAgent, agent.RoleSteward},
	}
	if len(m.Messages) != len(wantRoutes) {
		t.Fatalf("got %d messages, want %d", len(m.Messages), len(wantRoutes))
	}
	for i, want := range wantRoutes {
		if m.Messages[i].From != want[0] || m.Messages[i].To != want[1] {
			t.Errorf("message[%d] route = %s -> %s, want %s -> %s",
				i, m.Messages[i].From, m.Messages[i].To, want[0], want[1])
		}
	}

	if len(repo.saved) != 1 {
		t.Errorf("saved %d meetings, want exactly 1", len(repo.saved))
	}
}

func TestRunFromText_ProseSummaryFallback(t *testing.T) {
	chat := happyChat()
	chat.summary = "The team agreed on the release plan and assigned owners."
	repo := &fakeRepo{}

	m, phases, err := newTestService(chat, &fakeAudio{}, repo).RunFromText(context.Background(), "transcript", RunOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if phases[len(phases)-1] != PhaseDone {
		t.Fatalf("final phase = %s", phases[len(phases)-1])
	}
	if m.Summary == nil || len(m.Summary.Bullets) != 1 {
		t.Fatalf("summary = %+v, want single prose bullet", m.Summary)
	}
	if m.Summary.Bullets[0] != chat.summary {
		t.Errorf("bullet = %q", m.Summary.Bullets[0])
	}
}

func TestRunFromText_MalformedExtractionYieldsEmptyLists(t *testing.T) {
	chat := happyChat()
	chat.decisions = "I could not find any decisions, sorry."
	chat.actions = "```\nnot json\n```"
	repo := &fakeRepo{}

	m, phases, err := newTestService(chat, &fakeAudio{}, repo).RunFromText(context.Background(), "transcript", RunOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if phases[len(phases)-1] != PhaseDone {
		t.Fatalf("final phase = %s", phases[len(phases)-1])
	}
	if len(m.Decisions) != 0 || len(m.ActionItems) != 0 {
		t.Errorf("decisions = %d, action items = %d, want 0 and 0", len(m.Decisions), len(m.ActionItems))
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved %d meetings, want 1", len(repo.saved))
	}
}

func TestRunFromText_ModelExhaustionFailsRun(t *testing.T) {
	chat := happyChat()
	chat.decisionErr = &ai.ExhaustedError{Attempts: 3, Err: errors.New("connection refused")}
	repo := &fakeRepo{}

	_, phases, err := newTestService(chat, &fakeAudio{}, repo).RunFromText(context.Background(), "transcript", RunOptions{})
	if err == nil {
		t.Fatal("expected error")
	}

	var exhausted *ai.ExhaustedError
	if !errors.As(err, &exhausted) || exhausted.Attempts != 3 {
		t.Fatalf("err = %v, want ExhaustedError with 3 attempts", err)
	}
	if phases[len(phases)-1] != PhaseFailed {
		t.Errorf("final phase = %s, want %s", phases[len(phases)-1], PhaseFailed)
	}
	if len(repo.saved) != 0 {
		t.Errorf("failed run was persisted")
	}

	// The action item stage never ran.
	for _, call := range chat.calls {
		if call == "actions" {
			t.Error("action item stage ran after decision failure")
		}
	}
}

func TestRunFromAudio_FullCascade(t *testing.T) {
	chat := happyChat()
	audio := &fakeAudio{
		transcript: "hello everyone let us begin",
		utterances: []entities.Utterance{
			{Start: 0, End: 2, Speaker: "SPEAKER_00", Text: "hello everyone"},
			{Start: 2, End: 5, Speaker: "SPEAKER_00", Text: "let us begin"},
		},
	}
	repo := &fakeRepo{}

	m, phases, err := newTestService(chat, audio, repo).RunFromAudio(context.Background(), "s3://meetings/standup.wav", RunOptions{Model: "qwen2.5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPhases := []Phase{PhaseStart, PhaseTranscribing, PhaseSummarizing, PhaseExtractingDecisions, PhaseExtractingActionItems, PhaseDone}
	if len(phases) != len(wantPhases) {
		t.Fatalf("phases = %v", phases)
	}
	if m.TranscriptRaw != audio.transcript {
		t.Errorf("transcript = %q", m.TranscriptRaw)
	}
	if len(m.Segments) != 2 {
		t.Errorf("segments = %d, want 2", len(m.Segments))
	}
	if m.ModelUsed != "qwen2.5" {
		t.Errorf("model used = %q, want override", m.ModelUsed)
	}

	if len(m.Messages) != 4 {
		t.Fatalf("got %d messages, want 4", len(m.Messages))
	}
	first := m.Messages[0]
	if first.From != agent.RoleTranscriber || first.To != agent.RoleSummarizer {
		t.Errorf("first message route = %s -> %s", first.From, first.To)
	}
	if count, ok := first.Payload["segment_count"].(int); !ok || count != 2 {
		t.Errorf("segment_count payload = %v", first.Payload["segment_count"])
	}
}

func TestRunFromAudio_AcquisitionFailureFailsRun(t *testing.T) {
	chat := happyChat()
	audio := &fakeAudio{err: errors.New("all transcription tiers failed")}
	repo := &fakeRepo{}

	_, phases, err := newTestService(chat, audio, repo).RunFromAudio(context.Background(), "broken.wav", RunOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	if phases[len(phases)-1] != PhaseFailed {
		t.Errorf("final phase = %s", phases[len(phases)-1])
	}
	if len(chat.calls) != 0 {
		t.Errorf("analysis stages ran without a transcript: %v", chat.calls)
	}
	if len(repo.saved) != 0 {
		t.Errorf("failed run was persisted")
	}
}

func TestRunFromText_EmptyTranscriptRejected(t *testing.T) {
	svc := newTestService(happyChat(), &fakeAudio{}, &fakeRepo{})

	_, _, err := svc.RunFromText(context.Background(), "   ", RunOptions{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

func TestRunFromAudio_EmptyReferenceRejected(t *testing.T) {
	svc := newTestService(happyChat(), &fakeAudio{}, &fakeRepo{})

	_, _, err := svc.RunFromAudio(context.Background(), "", RunOptions{})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}
