package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blossomz37/orchat/internal/chat"
)

var exportClock = func() time.Time {
	return time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
}

func sampleTranscript() *chat.Transcript {
	tr := chat.NewTranscript()
	tr.Append(chat.Turn{
		Role:      chat.RoleUser,
		CreatedAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
		Text:      "hi",
	})
	tr.Append(chat.Turn{
		Role:      chat.RoleAssistant,
		CreatedAt: time.Date(2026, 8, 29, 10, 0, 5, 0, time.UTC),
		Text:      "hello",
		Images:    []string{"data:image/png;base64,AAAA"},
	})
	return tr
}

func TestMarkdownExportLayout(t *testing.T) {
	var buf bytes.Buffer
	e := &Markdown{Now: exportClock}
	require.NoError(t, e.Export(sampleTranscript(), &buf))
	out := buf.String()

	// Sections in document order.
	indexes := []int{
		strings.Index(out, "# Conversation"),
		strings.Index(out, "Exported: 2026-08-29T10:30:00Z"),
		strings.Index(out, "## User"),
		strings.Index(out, "hi"),
		strings.Index(out, "## Assistant"),
		strings.Index(out, "hello"),
		strings.Index(out, "### Images"),
	}
	for i, idx := range indexes {
		require.GreaterOrEqual(t, idx, 0, "missing section %d in output:\n%s", i, out)
		if i > 0 {
			assert.Greater(t, idx, indexes[i-1], "section %d out of order", i)
		}
	}

	assert.Contains(t, out, "![image-2026-08-29T10-00-05Z-1.png](image-2026-08-29T10-00-05Z-1.png)")
	assert.NotContains(t, out, ":0", "timestamps inside filenames must have colons replaced")
}

func TestMarkdownExportDeterministic(t *testing.T) {
	tr := sampleTranscript()
	e := &Markdown{Now: exportClock}

	var first, second bytes.Buffer
	require.NoError(t, e.Export(tr, &first))
	require.NoError(t, e.Export(tr, &second))
	assert.Equal(t, first.String(), second.String())
}

func TestMarkdownExportNoTextPlaceholder(t *testing.T) {
	tr := chat.NewTranscript()
	tr.Append(chat.Turn{
		Role:      chat.RoleAssistant,
		CreatedAt: time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC),
		Images:    []string{"data:image/jpeg;base64,AAAA"},
	})

	var buf bytes.Buffer
	require.NoError(t, (&Markdown{Now: exportClock}).Export(tr, &buf))
	assert.Contains(t, buf.String(), "(no text)")
	assert.Contains(t, buf.String(), "image-2026-08-29T11-00-00Z-1.jpg")
}

func TestImageFilenameDefaultsToPNG(t *testing.T) {
	turn := chat.Turn{
		Role:      chat.RoleAssistant,
		CreatedAt: time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC),
		Images:    []string{"not a data url"},
	}
	assert.Equal(t, "image-2026-08-29T11-00-00Z-1.png", ImageFilename(turn, 0))
}

func TestMarkdownExportEmptyTranscript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Markdown{Now: exportClock}).Export(chat.NewTranscript(), &buf))
	assert.Contains(t, buf.String(), "# Conversation")
	assert.NotContains(t, buf.String(), "##")
}
