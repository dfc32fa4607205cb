// Package config loads application settings: defaults, then an optional
// settings file (JSON or YAML), then environment overrides. Credentials are
// never stored in the file; each provider resolves its own key from the
// environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings represents the main application settings
type Settings struct {
	LLM LLMSettings `json:"llm" yaml:"llm"`
	Log LogSettings `json:"log" yaml:"log"`
}

// LLMSettings controls the generation subsystem: which provider the factory
// wires, and how the response cache behaves.
type LLMSettings struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`             // feature flag; false = no router
	Provider     string `json:"provider" yaml:"provider"`           // "groq", "openai", "anthropic", "gemini", "custom", or "ollama"
	Model        string `json:"model,omitempty" yaml:"model"`       // model name (empty = provider default)
	MaxTokens    int    `json:"max_tokens,omitempty" yaml:"max_tokens"`
	CacheEnabled bool   `json:"cache_enabled" yaml:"cache_enabled"`
	CacheDir     string `json:"cache_dir,omitempty" yaml:"cache_dir"`
}

// LogSettings contains logging configuration
type LogSettings struct {
	Level string `json:"level" yaml:"level"` // "debug", "info", "warn", or "error"
}

// DefaultSettings returns the defaults applied before file and env
// overrides.
func DefaultSettings() *Settings {
	home, _ := os.UserHomeDir()
	return &Settings{
		LLM: LLMSettings{
			Enabled:      true,
			Provider:     "groq",
			CacheEnabled: true,
			CacheDir:     filepath.Join(home, ".restforge", "cache", "llm"),
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// LoadSettings loads settings from path. An empty path or a missing file
// yields the defaults (plus env overrides); a present but unreadable or
// malformed file is an error.
func LoadSettings(path string) (*Settings, error) {
	settings := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
			}
		} else if err := unmarshalSettings(path, data, settings); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(settings)
	return settings, nil
}

func unmarshalSettings(path string, data []byte, settings *Settings) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, settings); err != nil {
			return fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	}
	return nil
}

// applyEnvOverrides lets deployments flip individual knobs without a
// settings file.
func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("RESTFORGE_LLM_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			s.LLM.Enabled = enabled
		}
	}
	if v := os.Getenv("RESTFORGE_LLM_PROVIDER"); v != "" {
		s.LLM.Provider = v
	}
	if v := os.Getenv("RESTFORGE_LLM_MODEL"); v != "" {
		s.LLM.Model = v
	}
	if v := os.Getenv("RESTFORGE_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.LLM.MaxTokens = n
		}
	}
	if v := os.Getenv("RESTFORGE_LLM_CACHE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			s.LLM.CacheEnabled = enabled
		}
	}
	if v := os.Getenv("RESTFORGE_LLM_CACHE_DIR"); v != "" {
		s.LLM.CacheDir = v
	}
	if v := os.Getenv("RESTFORGE_LOG_LEVEL"); v != "" {
		s.Log.Level = v
	}
}
