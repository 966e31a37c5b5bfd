package export

import (
	"encoding/json"
	"io"

	"github.com/blossomz37/orchat/internal/chat"
)

// JSON dumps the raw transcript turns, image data URLs included.
type JSON struct{}

// Export writes the turns as an indented JSON array.
func (e *JSON) Export(tr *chat.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tr.All())
}

// Extension returns the file extension for this format.
func (e *JSON) Extension() string {
	return "json"
}
