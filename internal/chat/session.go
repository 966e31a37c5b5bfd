package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/blossomz37/orchat/internal/catalog"
	"github.com/blossomz37/orchat/internal/extract"
	"github.com/blossomz37/orchat/pkg/openrouter"
)

// Send precondition failures. Interactive callers treat these as silent
// no-ops; they are typed so tests and batch callers can tell them apart.
var (
	ErrSendInFlight = errors.New("a send is already in flight")
	ErrBlankPrompt  = errors.New("prompt is blank")
	ErrNoAPIKey     = errors.New("no API key configured")
	ErrNoModel      = errors.New("no model selected")
)

// imagePlaceholder stands in for assistant text when a response carries
// images but no text at all.
const imagePlaceholder = "(image generated)"

// Completer is the chat completion boundary consumed by Send.
type Completer interface {
	Complete(ctx context.Context, req openrouter.Request) (*openrouter.ResponseMessage, error)
}

// Session holds the interactive state for one conversation: credential,
// selected model, transcript, the single-flight guard, and the last error.
// A Session is not safe for concurrent use; the interactive surface drives it
// from a single goroutine.
type Session struct {
	ID string

	apiKey     string
	model      catalog.Model
	hasModel   bool
	transcript *Transcript
	sending    bool
	lastErr    error

	now func() time.Time
}

// NewSession creates an empty session.
func NewSession(apiKey string) *Session {
	return &Session{
		ID:         uuid.New().String(),
		apiKey:     apiKey,
		transcript: NewTranscript(),
		now:        time.Now,
	}
}

// SetAPIKey replaces the session credential.
func (s *Session) SetAPIKey(key string) {
	s.apiKey = strings.TrimSpace(key)
}

// SelectModel sets the target model for subsequent sends.
func (s *Session) SelectModel(m catalog.Model) {
	s.model = m
	s.hasModel = true
}

// Model returns the selected model, if any.
func (s *Session) Model() (catalog.Model, bool) {
	return s.model, s.hasModel
}

// Transcript returns the session's transcript.
func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// Sending reports whether a send is in flight.
func (s *Session) Sending() bool {
	return s.sending
}

// Err returns the error recorded by the most recent completed send, or nil.
func (s *Session) Err() error {
	return s.lastErr
}

// BeginSend validates the preconditions for a send, appends the user turn
// optimistically, and builds the outbound request. A send already in flight,
// a blank prompt, a missing credential, or a missing model all refuse the
// send without touching the transcript.
func (s *Session) BeginSend(prompt string) (*openrouter.Request, error) {
	if s.sending {
		return nil, ErrSendInFlight
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrBlankPrompt
	}
	if s.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if !s.hasModel {
		return nil, ErrNoModel
	}

	s.transcript.Append(Turn{Role: RoleUser, CreatedAt: s.now(), Text: prompt})
	s.sending = true
	s.lastErr = nil

	req := s.buildRequest()
	return &req, nil
}

// buildRequest projects the full turn history, including the just-appended
// user turn, to the minimal {role, content} wire shape.
func (s *Session) buildRequest() openrouter.Request {
	turns := s.transcript.All()
	msgs := make([]openrouter.Message, 0, len(turns))
	for _, turn := range turns {
		msgs = append(msgs, openrouter.Message{Role: string(turn.Role), Content: turn.Text})
	}

	req := openrouter.Request{Model: s.model.ID, Messages: msgs}
	if s.model.Kind == catalog.KindImage {
		req.Modalities = []string{"image", "text"}
	}
	return req
}

// CompleteSend finishes the cycle begun by BeginSend. On failure the error is
// recorded, no assistant turn is appended, and the optimistic user turn stays.
// On success the assistant turn is appended with the extracted text and
// images; a response with images but no text gets a placeholder text.
func (s *Session) CompleteSend(msg *openrouter.ResponseMessage, callErr error) {
	s.sending = false

	if callErr != nil {
		s.lastErr = callErr
		return
	}
	if msg == nil {
		s.lastErr = errors.New("empty response message")
		return
	}

	text := extract.Text(msg.Content)
	images := extract.ImageDataURLs(msg.Images)
	if text == "" && len(images) > 0 {
		text = imagePlaceholder
	}

	s.transcript.Append(Turn{
		Role:      RoleAssistant,
		CreatedAt: s.now(),
		Text:      text,
		Images:    images,
	})
	s.lastErr = nil
}

// Send runs one full request/response cycle. Precondition failures are
// returned without starting the cycle; call failures are recorded on the
// session and returned.
func (s *Session) Send(ctx context.Context, client Completer, prompt string) error {
	req, err := s.BeginSend(prompt)
	if err != nil {
		return err
	}
	msg, callErr := client.Complete(ctx, *req)
	s.CompleteSend(msg, callErr)
	return s.lastErr
}
