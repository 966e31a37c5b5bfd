// Package config owns the JSON config file: defaults, load/save with atomic
// writes, environment overrides, and the dotted-key access behind the
// `config` subcommand.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blossomz37/orchat/pkg/openrouter"
)

type Config struct {
	DataDir    string `json:"data_dir"`
	LogLevel   string `json:"log_level"`
	OpenRouter struct {
		BaseURL string `json:"base_url"`
		APIKey  string `json:"api_key"`
		Title   string `json:"title"`
	} `json:"openrouter"`
	Chat struct {
		DefaultModel string `json:"default_model"`
		ExportDir    string `json:"export_dir"`
	} `json:"chat"`
	Smoke struct {
		OutDir string `json:"out_dir"`
	} `json:"smoke"`
	ModelCatalog string `json:"model_catalog"`
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".orchat", "config.json")
}

func defaults() *Config {
	cfg := &Config{
		DataDir:  filepath.Join(os.Getenv("HOME"), ".orchat"),
		LogLevel: "info",
	}
	cfg.OpenRouter.BaseURL = openrouter.DefaultBaseURL
	cfg.OpenRouter.Title = "orchat"
	cfg.Chat.DefaultModel = "openai/gpt-5.2-chat"
	cfg.Chat.ExportDir = "."
	cfg.Smoke.OutDir = filepath.Join("tests", "out")
	cfg.ModelCatalog = filepath.Join(cfg.DataDir, "models.yaml")
	return cfg
}

// Load reads the config file, writing defaults on first run. Environment
// variables override the file; the API key honors the same fallback chain the
// smoke harness documents, so one exported key serves both.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if os.IsNotExist(err) {
		if err := Save(path, cfg); err != nil {
			return nil, err
		}
	}

	for _, name := range []string{"OPENROUTER_API_KEY", "OPENROUTER_KEY", "OPENROUTER_API_TOKEN"} {
		if key := os.Getenv(name); key != "" {
			cfg.OpenRouter.APIKey = key
			break
		}
	}
	if baseURL := os.Getenv("OPENROUTER_BASE_URL"); baseURL != "" {
		cfg.OpenRouter.BaseURL = baseURL
	}

	return cfg, nil
}

// Save writes the config atomically: write to a temp file, then rename.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ListValues returns the config as a flat dot-keyed map, masking secrets
// when masked is true.
func ListValues(cfg *Config, masked bool) (map[string]any, error) {
	nested, err := toMap(cfg)
	if err != nil {
		return nil, err
	}
	flat := Flatten(nested)
	if masked {
		flat = MaskSecrets(flat)
	}
	return flat, nil
}

// GetValue loads the config at path and returns the value at the given
// dot-separated key. Secrets come back masked.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	flat, err := ListValues(cfg, true)
	if err != nil {
		return nil, err
	}
	val, ok := flat[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue loads the config at path, sets the dot-separated key, and saves.
// The value string is decoded as JSON when possible so numbers and booleans
// keep their type; anything else is stored as a string.
func SetValue(path, key, value string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	nested, err := toMap(cfg)
	if err != nil {
		return err
	}

	flat := Flatten(nested)
	if _, ok := flat[key]; !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}

	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		parsed = value
	}
	flat[key] = parsed

	data, err := json.Marshal(Unflatten(flat))
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	updated := defaults()
	if err := json.Unmarshal(data, updated); err != nil {
		return fmt.Errorf("value %q does not fit key %s: %w", value, key, err)
	}
	return Save(path, updated)
}

func toMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return nested, nil
}
