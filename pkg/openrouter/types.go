package openrouter

import "encoding/json"

// Message is one entry in the outbound conversation projection. Content is
// usually a plain string but the API also accepts multi-part arrays, so it is
// left loosely typed.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// Plugin enables a provider-side plugin such as web search.
type Plugin struct {
	ID         string `json:"id"`
	MaxResults int    `json:"max_results,omitempty"`
}

// Request is the chat completions request body.
type Request struct {
	Model      string    `json:"model"`
	Messages   []Message `json:"messages"`
	Modalities []string  `json:"modalities,omitempty"`
	Plugins    []Plugin  `json:"plugins,omitempty"`
}

// WebSearchPlugin returns the web search plugin entry capped at maxResults.
func WebSearchPlugin(maxResults int) Plugin {
	return Plugin{ID: "web", MaxResults: maxResults}
}

// ResponseMessage is the assistant message inside a completion choice.
// Content, Images, and Annotations are kept as raw JSON: the provider does not
// guarantee their shape, and callers decode them tolerantly so that a malformed
// field degrades to empty output instead of failing the whole response.
type ResponseMessage struct {
	Role        string          `json:"role"`
	Content     json.RawMessage `json:"content,omitempty"`
	Images      json.RawMessage `json:"images,omitempty"`
	Annotations json.RawMessage `json:"annotations,omitempty"`
}

// AnnotationTypeURLCitation tags annotations that carry a web citation.
const AnnotationTypeURLCitation = "url_citation"

// chatResponse is the chat completions response body.
type chatResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message ResponseMessage `json:"message"`
}

// apiError is the error envelope OpenRouter returns on non-2xx statuses.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
