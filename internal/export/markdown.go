package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/blossomz37/orchat/internal/chat"
)

// Markdown renders a transcript as a human-readable Markdown document.
// Output is deterministic for a fixed clock: only the export timestamp line
// varies between runs over the same transcript.
type Markdown struct {
	// Now supplies the export timestamp; nil means time.Now.
	Now func() time.Time
}

// Export writes the document: a title, the export timestamp, then one section
// per turn in chronological order. Turns without text get a literal
// "(no text)" body; turns with images get an Images subsection with one
// markdown image link per image under its derived filename.
func (e *Markdown) Export(tr *chat.Transcript, w io.Writer) error {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	if _, err := fmt.Fprintf(w, "# Conversation\n\nExported: %s\n\n", now().Format(time.RFC3339)); err != nil {
		return err
	}

	for _, turn := range tr.All() {
		if _, err := fmt.Fprintf(w, "## %s\n\n", roleHeading(turn.Role)); err != nil {
			return err
		}

		body := turn.Text
		if strings.TrimSpace(body) == "" {
			body = "(no text)"
		}
		if _, err := fmt.Fprintf(w, "%s\n\n", body); err != nil {
			return err
		}

		if len(turn.Images) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "### Images\n\n"); err != nil {
			return err
		}
		for i := range turn.Images {
			name := ImageFilename(turn, i)
			if _, err := fmt.Fprintf(w, "![%s](%s)\n", name, name); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func roleHeading(r chat.Role) string {
	switch r {
	case chat.RoleUser:
		return "User"
	case chat.RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// Extension returns the file extension for this format.
func (e *Markdown) Extension() string {
	return "md"
}
