package presenter

import (
	"github.com/johnquangdev/meeting-steward/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/internal/domain/repositories"
	"github.com/johnquangdev/meeting-steward/internal/usecase/pipeline"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting, phases []pipeline.Phase) *meeting.MeetingResponse {
	if m == nil {
		return nil
	}

	response := &meeting.MeetingResponse{
		ID:             m.ID.String(),
		CreatedAt:      m.CreatedAt,
		InputKind:      string(m.InputKind),
		AudioPath:      m.AudioPath,
		Transcript:     m.TranscriptRaw,
		Summary:        []string{},
		Decisions:      make([]meeting.DecisionResponse, 0, len(m.Decisions)),
		ActionItems:    make([]meeting.ActionItemResponse, 0, len(m.ActionItems)),
		Messages:       make([]meeting.MessageResponse, 0, len(m.Messages)),
		ModelUsed:      m.ModelUsed,
		ProcessingTime: m.ProcessingTime,
	}

	if m.Summary != nil {
		response.Summary = m.Summary.Bullets
	}

	for _, u := range m.Segments {
		response.Segments = append(response.Segments, meeting.UtteranceResponse{
			Start:   u.Start,
			End:     u.End,
			Speaker: u.Speaker,
			Text:    u.Text,
		})
	}

	for _, d := range m.Decisions {
		response.Decisions = append(response.Decisions, meeting.DecisionResponse{
			ID:          d.ID.String(),
			Description: d.Description,
			Owner:       d.Owner,
			Rationale:   d.Rationale,
			Timestamp:   d.Timestamp,
		})
	}

	for _, a := range m.ActionItems {
		response.ActionItems = append(response.ActionItems, meeting.ActionItemResponse{
			ID:          a.ID.String(),
			Description: a.Description,
			Owner:       a.Owner,
			DueDate:     a.DueDate,
			Priority:    a.Priority,
			Status:      a.Status,
		})
	}

	for _, msg := range m.Messages {
		response.Messages = append(response.Messages, meeting.MessageResponse{
			From:      string(msg.From),
			To:        string(msg.To),
			Content:   msg.Content,
			Payload:   msg.Payload,
			Timestamp: msg.Timestamp,
		})
	}

	for _, p := range phases {
		response.Phases = append(response.Phases, string(p))
	}

	return response
}

// ToListMeetingsResponse converts meeting summaries to the list DTO
func ToListMeetingsResponse(summaries []repositories.MeetingSummary) *meeting.ListMeetingsResponse {
	rows := make([]meeting.MeetingSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, meeting.MeetingSummaryResponse{
			ID:                s.ID.String(),
			CreatedAt:         s.CreatedAt,
			InputKind:         string(s.InputKind),
			TranscriptPreview: s.TranscriptPreview,
			ModelUsed:         s.ModelUsed,
		})
	}
	return &meeting.ListMeetingsResponse{
		Meetings: rows,
		Count:    len(rows),
	}
}
