// Package extract normalizes the loosely-shaped values OpenRouter returns in
// chat completion messages: multi-part content, web citations, and inline
// base64 images. Every function here degrades to empty output on shapes it
// does not recognize; only the data URL decoder can return an error.
package extract

import (
	"encoding/json"
	"strings"
)

// Text flattens a message content value into a plain string. Content is either
// a plain string or an ordered list of parts, where each part is a string or
// an object carrying an optional string "text" field. Parts of any other shape
// contribute nothing. A json.RawMessage is decoded first, so response message
// content can be passed in directly.
func Text(content any) string {
	if raw, ok := content.(json.RawMessage); ok {
		if len(raw) == 0 {
			return ""
		}
		var decoded any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return ""
		}
		content = decoded
	}

	switch v := content.(type) {
	case string:
		return v
	case []any:
		var b strings.Builder
		for _, part := range v {
			switch p := part.(type) {
			case string:
				b.WriteString(p)
			case map[string]any:
				if text, ok := p["text"].(string); ok {
					b.WriteString(text)
				}
			}
		}
		return b.String()
	default:
		return ""
	}
}
