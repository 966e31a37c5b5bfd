package extract

import (
	"encoding/json"
	"regexp"

	"github.com/blossomz37/orchat/pkg/openrouter"
)

// Citation source values.
const (
	SourceAnnotations = "annotations"
	SourceMarkdown    = "markdown"
)

// Citation is a web reference attached to an assistant message, either taken
// from structured url_citation annotations or scraped from markdown links in
// the message text.
type Citation struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content,omitempty"`
	StartIndex *int   `json:"start_index,omitempty"`
	EndIndex   *int   `json:"end_index,omitempty"`
	Source     string `json:"source"`
}

var markdownLinkRE = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\s)]+)\)`)

// Citations returns the web citations carried by a response message,
// de-duplicated by URL with the first occurrence winning. Structured
// annotations take precedence: the markdown-link fallback runs only when no
// usable annotation citation exists, and the two sources are never merged.
// The result is never nil.
func Citations(msg *openrouter.ResponseMessage) []Citation {
	if msg == nil {
		return []Citation{}
	}
	cits := annotationCitations(msg.Annotations)
	if len(cits) == 0 {
		cits = markdownCitations(Text(msg.Content))
	}
	return dedupeByURL(cits)
}

// annotationCitations decodes the annotations field entry by entry. A
// malformed entry is skipped, never fatal. Only url_citation annotations with
// a non-empty string URL survive; optional fields are copied when they have
// the right type.
func annotationCitations(raw json.RawMessage) []Citation {
	if len(raw) == 0 {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}

	var out []Citation
	for _, entry := range entries {
		var a struct {
			Type        string          `json:"type"`
			URLCitation json.RawMessage `json:"url_citation"`
		}
		if err := json.Unmarshal(entry, &a); err != nil {
			continue
		}
		if a.Type != openrouter.AnnotationTypeURLCitation || len(a.URLCitation) == 0 {
			continue
		}

		var c struct {
			URL        any `json:"url"`
			Title      any `json:"title"`
			Content    any `json:"content"`
			StartIndex any `json:"start_index"`
			EndIndex   any `json:"end_index"`
		}
		if err := json.Unmarshal(a.URLCitation, &c); err != nil {
			continue
		}

		url, ok := c.URL.(string)
		if !ok || url == "" {
			continue
		}

		cit := Citation{URL: url, Source: SourceAnnotations}
		if title, ok := c.Title.(string); ok {
			cit.Title = title
		}
		if content, ok := c.Content.(string); ok {
			cit.Content = content
		}
		if n, ok := c.StartIndex.(float64); ok {
			idx := int(n)
			cit.StartIndex = &idx
		}
		if n, ok := c.EndIndex.(float64); ok {
			idx := int(n)
			cit.EndIndex = &idx
		}
		out = append(out, cit)
	}
	return out
}

// markdownCitations scrapes [label](http...) links out of message text, in
// order of appearance, using the link label as the citation title.
func markdownCitations(text string) []Citation {
	matches := markdownLinkRE.FindAllStringSubmatch(text, -1)
	var out []Citation
	for _, m := range matches {
		out = append(out, Citation{
			URL:    m[2],
			Title:  m[1],
			Source: SourceMarkdown,
		})
	}
	return out
}

func dedupeByURL(cits []Citation) []Citation {
	seen := make(map[string]bool, len(cits))
	out := make([]Citation, 0, len(cits))
	for _, c := range cits {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		out = append(out, c)
	}
	return out
}
