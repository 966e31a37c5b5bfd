package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("expected builtin models")
	}

	var hasText, hasImage bool
	for _, m := range c.Models() {
		switch m.Kind {
		case KindText:
			hasText = true
		case KindImage:
			hasImage = true
		default:
			t.Errorf("builtin model %s has unknown kind %q", m.ID, m.Kind)
		}
		if m.Label == "" {
			t.Errorf("builtin model %s has no label", m.ID)
		}
	}
	if !hasText || !hasImage {
		t.Error("builtin catalog must cover both text and image kinds")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "models.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != Default().Len() {
		t.Errorf("expected builtin catalog, got %d models", c.Len())
	}
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	content := `models:
  - id: vendor/custom-chat
    label: Custom Chat
    kind: text
  - id: vendor/custom-image
    kind: image
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 models, got %d", c.Len())
	}

	m, ok := c.ByID("vendor/custom-image")
	if !ok {
		t.Fatal("expected vendor/custom-image in catalog")
	}
	if m.Kind != KindImage {
		t.Errorf("expected image kind, got %q", m.Kind)
	}
	if m.Label != "vendor/custom-image" {
		t.Errorf("expected label to default to id, got %q", m.Label)
	}
}

func TestLoadRejectsBadEntries(t *testing.T) {
	cases := map[string]string{
		"no models":    "models: []\n",
		"missing id":   "models:\n  - label: X\n    kind: text\n",
		"unknown kind": "models:\n  - id: vendor/x\n    kind: video\n",
		"not yaml":     "models: [unclosed\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "models.yaml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestByIDMiss(t *testing.T) {
	if _, ok := Default().ByID("vendor/nope"); ok {
		t.Error("expected miss for unknown id")
	}
}
