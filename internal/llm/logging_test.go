package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/secandoalei/secando/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func TestLogging_RecordsSuccess(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"lawTitle":"CF/88"}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 7},
	})
	repo := &recordingRepo{}
	p := WithLogging(mock, "gemini", repo, zap.NewNop())

	ctx := WithPurpose(context.Background(), "plan-gen")
	_, err := p.Generate(ctx, Request{
		System: "sys",
		Messages: []Message{{
			Role:        RoleUser,
			Content:     "Divida a lei.",
			Attachments: []Attachment{{Name: "lei.pdf", MIMEType: "application/pdf", Data: []byte("%PDF-1.7")}},
		}},
		Schema: &Schema{Name: "study-plan", Definition: map[string]any{"type": "object"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	ev := repo.events[0]
	if ev.Provider != "gemini" || ev.Purpose != "plan-gen" || !ev.Success {
		t.Errorf("event = %+v", ev)
	}
	if ev.InputTokens != 12 || ev.OutputTokens != 7 {
		t.Errorf("tokens = %d/%d", ev.InputTokens, ev.OutputTokens)
	}
	if !strings.Contains(ev.RequestBody, "<attachment lei.pdf application/pdf 8 bytes>") {
		t.Errorf("request body missing attachment summary:\n%s", ev.RequestBody)
	}
	if strings.Contains(ev.RequestBody, "%PDF") {
		t.Error("request body must not contain attachment bytes")
	}
	if ev.ResponseBody != `{"lawTitle":"CF/88"}` {
		t.Errorf("response body = %q", ev.ResponseBody)
	}
}

func TestLogging_FailureIsLoggedAndReturned(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	repo := &recordingRepo{err: errors.New("disk full")}
	core, logs := observer.New(zapcore.DebugLevel)
	p := WithLogging(mock, "gemini", repo, zap.New(core))

	_, err := p.Generate(WithPurpose(context.Background(), "explain"), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
	if len(repo.events) != 1 || repo.events[0].Success {
		t.Fatalf("expected one failed event, got %+v", repo.events)
	}
	if got := logs.FilterMessage("llm request failed").Len(); got != 1 {
		t.Errorf("failure log entries = %d, want 1", got)
	}
	if got := logs.FilterMessage("failed to record llm request event").Len(); got != 1 {
		t.Errorf("repo failure log entries = %d, want 1", got)
	}
}

func TestLogging_StoreIntegration(t *testing.T) {
	s, err := store.Open("file:llm_logging?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"ok"`)})
	p := WithLogging(mock, "mock", s.EventRepo(), nil)
	if _, err := p.Generate(WithPurpose(context.Background(), "quiz-gen"), Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Purpose: "quiz-gen"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 stored event, got %d", len(events))
	}
}

func TestTimeoutProvider(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	if got := WithTimeout(mock, 0); got != Provider(mock) {
		t.Fatal("zero timeout should return the inner provider")
	}
	p := WithTimeout(mock, 1e9)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "mock" {
		t.Fatalf("model = %q", p.ModelID())
	}
}
