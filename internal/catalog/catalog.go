// Package catalog holds the table of selectable models. The builtin table can
// be replaced wholesale by a models.yaml file so new providers are additive
// configuration, not code changes.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kind is the output modality a model is used for.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Model is one catalog entry.
type Model struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Kind  Kind   `yaml:"kind" json:"kind"`
}

// Catalog is an immutable, ordered set of models.
type Catalog struct {
	models []Model
}

// Default returns the builtin model table.
func Default() *Catalog {
	return &Catalog{models: []Model{
		{ID: "openai/gpt-5.2-chat", Label: "GPT-5.2 Chat", Kind: KindText},
		{ID: "anthropic/claude-sonnet-4.5", Label: "Claude Sonnet 4.5", Kind: KindText},
		{ID: "google/gemini-3-pro-image-preview", Label: "Gemini 3 Pro Image", Kind: KindImage},
	}}
}

// Load reads a catalog override file. A missing file is not an error and
// yields the builtin table.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read model catalog: %w", err)
	}

	var file struct {
		Models []Model `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse model catalog: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, fmt.Errorf("model catalog %s lists no models", path)
	}

	for i := range file.Models {
		m := &file.Models[i]
		if m.ID == "" {
			return nil, fmt.Errorf("model catalog %s: entry %d has no id", path, i)
		}
		if m.Kind != KindText && m.Kind != KindImage {
			return nil, fmt.Errorf("model catalog %s: model %s has unknown kind %q", path, m.ID, m.Kind)
		}
		if m.Label == "" {
			m.Label = m.ID
		}
	}

	return &Catalog{models: file.Models}, nil
}

// Models returns the entries in catalog order.
func (c *Catalog) Models() []Model {
	out := make([]Model, len(c.models))
	copy(out, c.models)
	return out
}

// ByID looks up a model by its provider identifier.
func (c *Catalog) ByID(id string) (Model, bool) {
	for _, m := range c.models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.models)
}
