// Package export serializes a chat transcript to a document. The layout
// follows cursor-session-style exporters: one implementation per format
// behind a small interface, selected by name.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blossomz37/orchat/internal/chat"
	"github.com/blossomz37/orchat/internal/extract"
)

// Exporter serializes a transcript to a writer.
type Exporter interface {
	Export(tr *chat.Transcript, w io.Writer) error
	Extension() string
}

// New creates an exporter for the given format name.
func New(format string) (Exporter, error) {
	switch format {
	case "md", "markdown":
		return &Markdown{}, nil
	case "json":
		return &JSON{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: md, json)", format)
	}
}

// FilenameStamp renders a timestamp in RFC 3339 with colons replaced, so it
// is safe inside a filename on every platform.
func FilenameStamp(t time.Time) string {
	return strings.ReplaceAll(t.Format(time.RFC3339), ":", "-")
}

// ImageFilename derives the stable name for the idx-th (0-based) image of a
// turn: the turn timestamp plus the 1-based index, with the extension taken
// from the image's mime type. Images that do not decode still get a name,
// with the default extension.
func ImageFilename(turn chat.Turn, idx int) string {
	ext := extract.ExtensionForMIME("")
	if img, err := extract.DecodeDataURL(turn.Images[idx]); err == nil {
		ext = extract.ExtensionForMIME(img.MIME)
	}
	return fmt.Sprintf("image-%s-%d.%s", FilenameStamp(turn.CreatedAt), idx+1, ext)
}

// WriteFile exports the transcript into dir as conversation-<stamp>.<ext>.
// For the markdown format, each decodable image is persisted alongside under
// its derived name so the document's image links resolve. A nil clock means
// time.Now. Returns the path of the transcript document.
func WriteFile(tr *chat.Transcript, dir, format string, now func() time.Time) (string, error) {
	if now == nil {
		now = time.Now
	}
	exporter, err := New(format)
	if err != nil {
		return "", err
	}
	if md, ok := exporter.(*Markdown); ok {
		md.Now = now
	}

	var buf bytes.Buffer
	if err := exporter.Export(tr, &buf); err != nil {
		return "", fmt.Errorf("export transcript: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("conversation-%s.%s", FilenameStamp(now().UTC()), exporter.Extension()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	if _, ok := exporter.(*Markdown); ok {
		if err := writeImages(tr, dir); err != nil {
			return "", err
		}
	}
	return path, nil
}

// writeImages persists every decodable image in the transcript under its
// derived filename. Undecodable payloads are skipped, not fatal.
func writeImages(tr *chat.Transcript, dir string) error {
	for _, turn := range tr.All() {
		for i, dataURL := range turn.Images {
			img, err := extract.DecodeDataURL(dataURL)
			if err != nil {
				continue
			}
			name := ImageFilename(turn, i)
			if err := os.WriteFile(filepath.Join(dir, name), img.Data, 0o644); err != nil {
				return fmt.Errorf("write image %s: %w", name, err)
			}
		}
	}
	return nil
}
