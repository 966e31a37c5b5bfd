// Package chat owns the conversation state for one interactive session: the
// append-only transcript of turns and the controller that runs a single
// request/response cycle against the chat completion boundary.
package chat

import (
	"strings"
	"time"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Images are kept in their encoded
// data-URL form; decoding happens only at export time.
type Turn struct {
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text,omitempty"`
	Images    []string  `json:"images,omitempty"`
}

// Empty reports whether the turn carries neither text nor images. Empty turns
// are never appended to a transcript.
func (t Turn) Empty() bool {
	return strings.TrimSpace(t.Text) == "" && len(t.Images) == 0
}
