package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-steward/internal/domain/agent"
	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
)

// Phase is one state of the pipeline state machine.
type Phase string

const (
	PhaseStart                 Phase = "start"
	PhaseTranscribing          Phase = "transcribing"
	PhaseSummarizing           Phase = "summarizing"
	PhaseExtractingDecisions   Phase = "extracting_decisions"
	PhaseExtractingActionItems Phase = "extracting_action_items"
	PhaseDone                  Phase = "done"
	PhaseFailed                Phase = "failed"
)

// RunOptions carries the per-run generation parameters threaded into every
// stage.
type RunOptions struct {
	Model       string
	Temperature float64
	MaxAttempts int
}

// Stage is one pipeline step. Execute mutates exactly one artifact field on
// the meeting and returns exactly one message for the orchestrator to append;
// it never removes or reorders artifacts produced by earlier stages.
type Stage interface {
	Role() agent.Role
	Phase() Phase
	Execute(ctx context.Context, m *entities.Meeting, opts RunOptions) (*entities.AgentMessage, error)
}

// Orchestrator sequences stage execution over a single meeting. It owns the
// meeting exclusively for the run's duration and is not reused concurrently
// for another run while active.
type Orchestrator struct {
	transcriber Stage
	summarizer  Stage
	decisions   Stage
	actionItems Stage
	logger      *zap.Logger
}

// NewOrchestrator wires the four stages into the fixed execution order.
func NewOrchestrator(transcriber, summarizer, decisions, actionItems Stage, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		transcriber: transcriber,
		summarizer:  summarizer,
		decisions:   decisions,
		actionItems: actionItems,
		logger:      logger,
	}
}

// Run executes the pipeline for one meeting and returns the phases visited
// in order. The terminal phase is always exactly one of done or failed.
func (o *Orchestrator) Run(ctx context.Context, m *entities.Meeting, opts RunOptions) ([]Phase, error) {
	phases := []Phase{PhaseStart}

	var stages []Stage
	switch m.InputKind {
	case entities.InputKindAudio:
		stages = []Stage{o.transcriber, o.summarizer, o.decisions, o.actionItems}
	case entities.InputKindText:
		stages = []Stage{o.summarizer, o.decisions, o.actionItems}
	default:
		return append(phases, PhaseFailed), &ValidationError{Reason: fmt.Sprintf("unknown input kind %q", m.InputKind)}
	}

	for _, stage := range stages {
		if err := o.checkPrecondition(stage, m); err != nil {
			o.warn("stage precondition failed",
				zap.String("phase", string(stage.Phase())),
				zap.Error(err),
			)
			return append(phases, PhaseFailed), err
		}

		phases = append(phases, stage.Phase())

		msg, err := stage.Execute(ctx, m, opts)
		if err != nil {
			o.warn("stage failed",
				zap.String("phase", string(stage.Phase())),
				zap.String("meeting_id", m.ID.String()),
				zap.Error(err),
			)
			return append(phases, PhaseFailed), err
		}

		if msg != nil {
			if !agent.IsAllowed(msg.From, msg.To) {
				return append(phases, PhaseFailed), fmt.Errorf("%w: %s -> %s", entities.ErrInvalidRoute, msg.From, msg.To)
			}
			m.AppendMessage(*msg)
		}

		o.info("stage complete",
			zap.String("phase", string(stage.Phase())),
			zap.String("meeting_id", m.ID.String()),
		)
	}

	return append(phases, PhaseDone), nil
}

// checkPrecondition enforces the state-machine entry conditions: audio must
// be referenced before transcribing, and every text-analysis stage needs a
// non-empty transcript.
func (o *Orchestrator) checkPrecondition(stage Stage, m *entities.Meeting) error {
	if stage.Phase() == PhaseTranscribing {
		if m.AudioPath == "" {
			return &ValidationError{Reason: "no audio reference on meeting"}
		}
		return nil
	}
	if m.TranscriptRaw == "" {
		return &ValidationError{Reason: fmt.Sprintf("empty transcript before %s", stage.Phase())}
	}
	return nil
}

func (o *Orchestrator) info(msg string, fields ...zap.Field) {
	if o.logger != nil {
		o.logger.Info(msg, fields...)
	}
}

func (o *Orchestrator) warn(msg string, fields ...zap.Field) {
	if o.logger != nil {
		o.logger.Warn(msg, fields...)
	}
}
