package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/internal/domain/repositories"
	"github.com/johnquangdev/meeting-steward/internal/usecase/pipeline"
	"github.com/johnquangdev/meeting-steward/pkg/ai"
	"github.com/johnquangdev/meeting-steward/pkg/config"
	"github.com/johnquangdev/meeting-steward/pkg/validator"
)

type fakeAnalyzer struct {
	meeting *entities.Meeting
	phases  []pipeline.Phase
	err     error

	gotTranscript string
	gotOpts       pipeline.RunOptions
}

func (f *fakeAnalyzer) RunFromText(_ context.Context, transcript string, opts pipeline.RunOptions) (*entities.Meeting, []pipeline.Phase, error) {
	f.gotTranscript = transcript
	f.gotOpts = opts
	return f.meeting, f.phases, f.err
}

func (f *fakeAnalyzer) RunFromAudio(_ context.Context, _ string, opts pipeline.RunOptions) (*entities.Meeting, []pipeline.Phase, error) {
	f.gotOpts = opts
	return f.meeting, f.phases, f.err
}

type stubRepo struct {
	meeting   *entities.Meeting
	summaries []repositories.MeetingSummary
	gotLimit  int
}

func (s *stubRepo) Save(_ context.Context, m *entities.Meeting) (uuid.UUID, error) {
	return m.ID, nil
}

func (s *stubRepo) Get(_ context.Context, _ uuid.UUID) (*entities.Meeting, error) {
	if s.meeting == nil {
		return nil, entities.ErrMeetingNotFound
	}
	return s.meeting, nil
}

func (s *stubRepo) List(_ context.Context, limit int) ([]repositories.MeetingSummary, error) {
	s.gotLimit = limit
	return s.summaries, nil
}

func finishedMeeting() *entities.Meeting {
	m := entities.NewMeeting(entities.InputKindText)
	m.TranscriptRaw = "we agreed to ship"
	m.Summary = &entities.ExecutiveSummary{Bullets: []string{"Shipping was agreed"}}
	m.ModelUsed = "llama3.2"
	return m
}

func newTestContext(t *testing.T, method, target string, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{ListLimit: 50},
	}
}

func TestAnalyzeText_Created(t *testing.T) {
	analyzer := &fakeAnalyzer{
		meeting: finishedMeeting(),
		phases:  []pipeline.Phase{pipeline.PhaseStart, pipeline.PhaseSummarizing, pipeline.PhaseDone},
	}
	h := NewMeetingHandler(analyzer, &stubRepo{}, testConfig(), nil)

	c, rec := newTestContext(t, http.MethodPost, "/v1/meetings/text",
		`{"transcript": "we agreed to ship", "model": "qwen2.5", "temperature": 0.3}`)

	if err := h.AnalyzeText(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if analyzer.gotOpts.Model != "qwen2.5" || analyzer.gotOpts.Temperature != 0.3 {
		t.Errorf("options not forwarded: %+v", analyzer.gotOpts)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["input_kind"] != "text" {
		t.Errorf("input_kind = %v", resp["input_kind"])
	}
	phases, _ := resp["phases"].([]any)
	if len(phases) != 3 || phases[len(phases)-1] != "done" {
		t.Errorf("phases = %v", resp["phases"])
	}
}

func TestAnalyzeText_MissingTranscriptRejected(t *testing.T) {
	h := NewMeetingHandler(&fakeAnalyzer{}, &stubRepo{}, testConfig(), nil)

	c, rec := newTestContext(t, http.MethodPost, "/v1/meetings/text", `{}`)

	if err := h.AnalyzeText(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAnalyzeText_ModelExhaustionMapsToBadGateway(t *testing.T) {
	analyzer := &fakeAnalyzer{
		err: &ai.ExhaustedError{Attempts: 3, Err: errors.New("connection refused")},
	}
	h := NewMeetingHandler(analyzer, &stubRepo{}, testConfig(), nil)

	c, rec := newTestContext(t, http.MethodPost, "/v1/meetings/text", `{"transcript": "hello"}`)

	if err := h.AnalyzeText(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp["error"] != "MODEL_EXHAUSTED" {
		t.Errorf("error code = %v", resp["error"])
	}
}

func TestGetMeeting_NotFound(t *testing.T) {
	h := NewMeetingHandler(&fakeAnalyzer{}, &stubRepo{}, testConfig(), nil)

	c, rec := newTestContext(t, http.MethodGet, "/v1/meetings/"+uuid.NewString(), "")
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	if err := h.GetMeeting(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestGetMeeting_InvalidIDRejected(t *testing.T) {
	h := NewMeetingHandler(&fakeAnalyzer{}, &stubRepo{}, testConfig(), nil)

	c, rec := newTestContext(t, http.MethodGet, "/v1/meetings/not-a-uuid", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.GetMeeting(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestListMeetings_DefaultLimit(t *testing.T) {
	repo := &stubRepo{
		summaries: []repositories.MeetingSummary{
			{ID: uuid.New(), InputKind: entities.InputKindText, TranscriptPreview: "we agreed"},
		},
	}
	h := NewMeetingHandler(&fakeAnalyzer{}, repo, testConfig(), nil)

	c, rec := newTestContext(t, http.MethodGet, "/v1/meetings", "")

	if err := h.ListMeetings(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if repo.gotLimit != 50 {
		t.Errorf("limit = %d, want configured default", repo.gotLimit)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if count, _ := resp["count"].(float64); count != 1 {
		t.Errorf("count = %v", resp["count"])
	}
}
