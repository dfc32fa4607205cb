package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RESTFORGE_LLM_ENABLED", "RESTFORGE_LLM_PROVIDER", "RESTFORGE_LLM_MODEL",
		"RESTFORGE_LLM_MAX_TOKENS", "RESTFORGE_LLM_CACHE_ENABLED",
		"RESTFORGE_LLM_CACHE_DIR", "RESTFORGE_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if !s.LLM.Enabled {
		t.Error("LLM should be enabled by default")
	}
	if s.LLM.Provider != "groq" {
		t.Errorf("default provider = %q, expected groq", s.LLM.Provider)
	}
	if !s.LLM.CacheEnabled {
		t.Error("cache should be enabled by default")
	}
	if s.LLM.CacheDir == "" {
		t.Error("default cache dir should be set")
	}
	if s.Log.Level != "info" {
		t.Errorf("default log level = %q, expected info", s.Log.Level)
	}
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	clearSettingsEnv(t)

	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadSettings() with missing file error = %v", err)
	}
	if s.LLM.Provider != "groq" {
		t.Errorf("provider = %q, expected the default", s.LLM.Provider)
	}
}

func TestLoadSettingsJSONFile(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"llm":{"enabled":true,"provider":"openai","model":"gpt-4o","cache_enabled":false},"log":{"level":"debug"}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.LLM.Provider != "openai" || s.LLM.Model != "gpt-4o" {
		t.Errorf("llm settings = %+v, expected openai/gpt-4o", s.LLM)
	}
	if s.LLM.CacheEnabled {
		t.Error("cache_enabled false in file should stick")
	}
	if s.Log.Level != "debug" {
		t.Errorf("log level = %q, expected debug", s.Log.Level)
	}
}

func TestLoadSettingsYAMLFile(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "llm:\n  enabled: true\n  provider: ollama\n  model: llama3.2\n  cache_enabled: true\nlog:\n  level: warn\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if s.LLM.Provider != "ollama" || s.LLM.Model != "llama3.2" {
		t.Errorf("llm settings = %+v, expected ollama/llama3.2", s.LLM)
	}
	if s.Log.Level != "warn" {
		t.Errorf("log level = %q, expected warn", s.Log.Level)
	}
}

func TestLoadSettingsMalformedFileFails(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Fatal("expected an error for a malformed settings file")
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	clearSettingsEnv(t)

	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{"llm":{"enabled":true,"provider":"openai","cache_enabled":true}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	t.Setenv("RESTFORGE_LLM_PROVIDER", "anthropic")
	t.Setenv("RESTFORGE_LLM_MODEL", "claude-3-5-haiku-latest")
	t.Setenv("RESTFORGE_LLM_MAX_TOKENS", "2048")
	t.Setenv("RESTFORGE_LLM_CACHE_ENABLED", "false")
	t.Setenv("RESTFORGE_LLM_CACHE_DIR", "/tmp/llm-cache")
	t.Setenv("RESTFORGE_LOG_LEVEL", "error")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}

	if s.LLM.Provider != "anthropic" {
		t.Errorf("provider = %q, expected the env override", s.LLM.Provider)
	}
	if s.LLM.Model != "claude-3-5-haiku-latest" {
		t.Errorf("model = %q, expected the env override", s.LLM.Model)
	}
	if s.LLM.MaxTokens != 2048 {
		t.Errorf("max tokens = %d, expected 2048", s.LLM.MaxTokens)
	}
	if s.LLM.CacheEnabled {
		t.Error("cache should be disabled by env override")
	}
	if s.LLM.CacheDir != "/tmp/llm-cache" {
		t.Errorf("cache dir = %q, expected the env override", s.LLM.CacheDir)
	}
	if s.Log.Level != "error" {
		t.Errorf("log level = %q, expected error", s.Log.Level)
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	clearSettingsEnv(t)

	t.Setenv("RESTFORGE_LLM_ENABLED", "not-a-bool")
	t.Setenv("RESTFORGE_LLM_MAX_TOKENS", "many")

	s, err := LoadSettings("")
	if err != nil {
		t.Fatalf("LoadSettings() error = %v", err)
	}
	if !s.LLM.Enabled {
		t.Error("unparseable bool override should leave the default")
	}
	if s.LLM.MaxTokens != 0 {
		t.Errorf("max tokens = %d, expected the default 0", s.LLM.MaxTokens)
	}
}
