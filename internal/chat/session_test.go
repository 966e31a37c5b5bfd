package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/blossomz37/orchat/internal/catalog"
	"github.com/blossomz37/orchat/pkg/openrouter"
)

var (
	textModel  = catalog.Model{ID: "vendor/chat", Label: "Chat", Kind: catalog.KindText}
	imageModel = catalog.Model{ID: "vendor/image", Label: "Image", Kind: catalog.KindImage}
)

func newTestSession() *Session {
	s := NewSession("test-key")
	s.SelectModel(textModel)
	s.now = func() time.Time { return time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC) }
	return s
}

// fakeCompleter returns a canned message or error and counts calls.
type fakeCompleter struct {
	msg   *openrouter.ResponseMessage
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _ openrouter.Request) (*openrouter.ResponseMessage, error) {
	f.calls++
	return f.msg, f.err
}

func TestBeginSendValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Session)
		prompt  string
		wantErr error
	}{
		{"blank prompt", func(s *Session) {}, "   ", ErrBlankPrompt},
		{"no api key", func(s *Session) { s.SetAPIKey("") }, "hi", ErrNoAPIKey},
		{"no model", func(s *Session) { s.hasModel = false }, "hi", ErrNoModel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession()
			tt.mutate(s)

			_, err := s.BeginSend(tt.prompt)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if s.Transcript().Len() != 0 {
				t.Error("refused send must not touch the transcript")
			}
			if s.Sending() {
				t.Error("refused send must not enter Sending")
			}
		})
	}
}

func TestBeginSendOptimisticAppend(t *testing.T) {
	s := newTestSession()

	req, err := s.BeginSend("  hello there  ")
	if err != nil {
		t.Fatal(err)
	}

	if s.Transcript().Len() != 1 {
		t.Fatalf("expected optimistic user turn, got %d turns", s.Transcript().Len())
	}
	turn := s.Transcript().All()[0]
	if turn.Role != RoleUser {
		t.Errorf("expected user role, got %s", turn.Role)
	}
	if turn.Text != "hello there" {
		t.Errorf("expected trimmed prompt, got %q", turn.Text)
	}
	if !s.Sending() {
		t.Error("expected session in Sending state")
	}

	if req.Model != "vendor/chat" {
		t.Errorf("expected model id in request, got %q", req.Model)
	}
	if len(req.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "user" || req.Messages[0].Content != "hello there" {
		t.Errorf("unexpected message projection: %+v", req.Messages[0])
	}
	if req.Modalities != nil {
		t.Errorf("text model must not request modalities, got %v", req.Modalities)
	}
}

func TestBeginSendImageModelModalities(t *testing.T) {
	s := newTestSession()
	s.SelectModel(imageModel)

	req, err := s.BeginSend("draw a puppy")
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Modalities) != 2 || req.Modalities[0] != "image" || req.Modalities[1] != "text" {
		t.Errorf("expected [image text] modalities, got %v", req.Modalities)
	}
}

func TestBeginSendSingleFlight(t *testing.T) {
	s := newTestSession()

	if _, err := s.BeginSend("first"); err != nil {
		t.Fatal(err)
	}

	_, err := s.BeginSend("second")
	if !errors.Is(err, ErrSendInFlight) {
		t.Fatalf("expected ErrSendInFlight, got %v", err)
	}
	if s.Transcript().Len() != 1 {
		t.Error("second send must not append a second optimistic turn")
	}
}

func TestBeginSendProjectsFullHistory(t *testing.T) {
	s := newTestSession()
	s.Transcript().Append(Turn{Role: RoleUser, Text: "earlier question"})
	s.Transcript().Append(Turn{Role: RoleAssistant, Text: "earlier answer"})

	req, err := s.BeginSend("follow-up")
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(req.Messages))
	}
	if req.Messages[1].Role != "assistant" {
		t.Errorf("expected assistant role at index 1, got %s", req.Messages[1].Role)
	}
	if req.Messages[2].Content != "follow-up" {
		t.Errorf("expected new prompt last, got %v", req.Messages[2].Content)
	}
}

func TestCompleteSendSuccess(t *testing.T) {
	s := newTestSession()
	if _, err := s.BeginSend("hi"); err != nil {
		t.Fatal(err)
	}

	s.CompleteSend(&openrouter.ResponseMessage{
		Content: json.RawMessage(`"hello back"`),
	}, nil)

	if s.Sending() {
		t.Error("expected session back in Idle")
	}
	if s.Err() != nil {
		t.Errorf("expected no error, got %v", s.Err())
	}
	if s.Transcript().Len() != 2 {
		t.Fatalf("expected assistant turn appended, got %d turns", s.Transcript().Len())
	}
	turn := s.Transcript().All()[1]
	if turn.Role != RoleAssistant || turn.Text != "hello back" {
		t.Errorf("unexpected assistant turn: %+v", turn)
	}
}

func TestCompleteSendImagePlaceholder(t *testing.T) {
	s := newTestSession()
	s.SelectModel(imageModel)
	if _, err := s.BeginSend("draw"); err != nil {
		t.Fatal(err)
	}

	s.CompleteSend(&openrouter.ResponseMessage{
		Images: json.RawMessage(`[{"image_url":{"url":"data:image/png;base64,AAAA"}}]`),
	}, nil)

	turn := s.Transcript().All()[1]
	if turn.Text != "(image generated)" {
		t.Errorf("expected placeholder text, got %q", turn.Text)
	}
	if len(turn.Images) != 1 {
		t.Errorf("expected 1 image, got %d", len(turn.Images))
	}
}

func TestCompleteSendFailureKeepsUserTurn(t *testing.T) {
	s := newTestSession()
	if _, err := s.BeginSend("hi"); err != nil {
		t.Fatal(err)
	}

	callErr := errors.New("openrouter HTTP 500: boom")
	s.CompleteSend(nil, callErr)

	if s.Sending() {
		t.Error("expected session back in Idle")
	}
	if !errors.Is(s.Err(), callErr) {
		t.Errorf("expected recorded error, got %v", s.Err())
	}
	if s.Transcript().Len() != 1 {
		t.Errorf("failed send must keep the user turn and append nothing, got %d turns", s.Transcript().Len())
	}

	// The session is usable again after a failure.
	if _, err := s.BeginSend("retry"); err != nil {
		t.Errorf("expected session to accept a new send, got %v", err)
	}
}

func TestCompleteSendEmptyResponseAppendsNothing(t *testing.T) {
	s := newTestSession()
	if _, err := s.BeginSend("hi"); err != nil {
		t.Fatal(err)
	}

	s.CompleteSend(&openrouter.ResponseMessage{}, nil)

	if s.Transcript().Len() != 1 {
		t.Errorf("entirely empty assistant turn must not be appended, got %d turns", s.Transcript().Len())
	}
}

func TestSend(t *testing.T) {
	s := newTestSession()
	client := &fakeCompleter{msg: &openrouter.ResponseMessage{Content: json.RawMessage(`"pong"`)}}

	if err := s.Send(context.Background(), client, "ping"); err != nil {
		t.Fatal(err)
	}
	if client.calls != 1 {
		t.Errorf("expected 1 call, got %d", client.calls)
	}
	if s.Transcript().Len() != 2 {
		t.Errorf("expected 2 turns, got %d", s.Transcript().Len())
	}
}

func TestSendRefusedMakesNoCall(t *testing.T) {
	s := newTestSession()
	client := &fakeCompleter{}

	if err := s.Send(context.Background(), client, ""); !errors.Is(err, ErrBlankPrompt) {
		t.Fatalf("expected ErrBlankPrompt, got %v", err)
	}
	if client.calls != 0 {
		t.Errorf("refused send must not reach the network boundary, got %d calls", client.calls)
	}
}
