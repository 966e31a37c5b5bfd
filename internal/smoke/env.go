// Package smoke is the non-interactive probe of the OpenRouter boundary: one
// text-model call and one image-model call, with every input and output
// persisted as artifacts for CI-style inspection.
package smoke

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Default models probed when no override is set.
const (
	DefaultTextModel  = "openai/gpt-5.2-chat"
	DefaultImageModel = "google/gemini-3-pro-image-preview"
)

// Env holds the resolved inputs for a smoke run.
type Env struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

// ResolveEnv loads an optional key=value file into the environment (existing
// variables win), then resolves the credential and model overrides through
// their fallback chains. A missing credential is the only error.
func ResolveEnv(dotenvPath string) (*Env, error) {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return nil, fmt.Errorf("load %s: %w", dotenvPath, err)
			}
		}
	}

	apiKey := firstEnv("OPENROUTER_API_KEY", "OPENROUTER_KEY", "OPENROUTER_API_TOKEN")
	if apiKey == "" {
		return nil, errors.New("missing OPENROUTER_API_KEY (or OPENROUTER_KEY / OPENROUTER_API_TOKEN) in environment/.env")
	}

	env := &Env{
		APIKey:     apiKey,
		TextModel:  firstEnv("OPENROUTER_TEXT_MODEL", "TEXT_MODEL"),
		ImageModel: firstEnv("OPENROUTER_IMAGE_MODEL", "IMAGE_MODEL"),
	}
	if env.TextModel == "" {
		env.TextModel = DefaultTextModel
	}
	if env.ImageModel == "" {
		env.ImageModel = DefaultImageModel
	}
	return env, nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
