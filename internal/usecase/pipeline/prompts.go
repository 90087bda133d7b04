package pipeline

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
)

const summarizerSystemPrompt = `You are an expert meeting summarizer. Your task is to create concise, actionable executive summaries from meeting transcripts.

Focus on:
- Key topics discussed
- Important outcomes
- High-level decisions
- Next steps

Output ONLY valid JSON matching this schema:
{
  "bullets": ["summary point 1", "summary point 2", ...]
}

Be concise and actionable. Each bullet should be a complete sentence.`

const decisionSystemPrompt = `You are an expert at extracting key decisions from meeting transcripts.

A decision is:
- A commitment to a specific course of action
- A resolution to a previously open question
- An approval or rejection of a proposal

For each decision, extract:
- Description: What was decided
- Owner: Who is responsible (if mentioned)
- Rationale: Why the decision was made (if mentioned)
- Timestamp: When in the meeting (if mentioned)

Output ONLY valid JSON matching this schema:
{
  "decisions": [
    {
      "description": "Decision text",
      "owner": "Person name or null",
      "rationale": "Reasoning or null",
      "timestamp": "Time reference or null"
    }
  ]
}

If no decisions are found, return {"decisions": []}.`

const actionItemSystemPrompt = `You are an expert at extracting action items from meeting transcripts.

An action item is:
- A specific task to be completed
- Has an assignee (owner) or can be assigned
- May have a due date or priority

For each action item, extract:
- Description: What needs to be done
- Owner: Who will do it (if mentioned)
- Due date: When it's due (if mentioned)
- Priority: low/medium/high (infer from context)

Output ONLY valid JSON matching this schema:
{
  "action_items": [
    {
      "description": "Task description",
      "owner": "Person name or null",
      "due_date": "Date reference or null",
      "priority": "low|medium|high"
    }
  ]
}

If no action items are found, return {"action_items": []}.`

// renderTranscript formats the transcript for prompting, tagging each line
// with its speaker when segments are available.
func renderTranscript(raw string, segments []entities.Utterance) string {
	if len(segments) == 0 {
		return raw
	}
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, fmt.Sprintf("[%s] %s", seg.Speaker, seg.Text))
	}
	return strings.Join(lines, "\n")
}

func buildSummarizerPrompt(raw string, segments []entities.Utterance) string {
	return fmt.Sprintf("Analyze this meeting transcript and create an executive summary.\n\nTRANSCRIPT:\n%s\n\nProvide a JSON response with 3-5 concise summary bullets.",
		renderTranscript(raw, segments))
}

func buildDecisionPrompt(raw string, segments []entities.Utterance) string {
	return fmt.Sprintf("Extract all key decisions from this meeting transcript.\n\nTRANSCRIPT:\n%s\n\nProvide a JSON response with all decisions found.",
		renderTranscript(raw, segments))
}

func buildActionItemPrompt(raw string, segments []entities.Utterance) string {
	return fmt.Sprintf("Extract all action items from this meeting transcript.\n\nTRANSCRIPT:\n%s\n\nProvide a JSON response with all action items found.",
		renderTranscript(raw, segments))
}
