package client

import (
	"strings"
	"testing"

	"github.com/restforge/restforge/internal/config"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GROQ_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY",
		"CUSTOM_LLM_BASE_URL", "CUSTOM_LLM_API_KEY", "OLLAMA_HOST",
	} {
		t.Setenv(key, "")
	}
}

func TestNewProviderKnowsEverySupportedName(t *testing.T) {
	clearProviderEnv(t)

	for _, name := range SupportedProviders {
		p, err := NewProvider(name, config.LLMSettings{})
		if err != nil {
			t.Errorf("NewProvider(%q) error = %v", name, err)
			continue
		}
		if p.Name() != name {
			t.Errorf("NewProvider(%q).Name() = %q, expected the registered name", name, p.Name())
		}
	}
}

func TestNewProviderAliases(t *testing.T) {
	clearProviderEnv(t)

	testCases := []struct {
		alias    string
		expected string
	}{
		{"claude", "anthropic"},
		{"local", "ollama"},
	}

	for _, tc := range testCases {
		p, err := NewProvider(tc.alias, config.LLMSettings{})
		if err != nil {
			t.Errorf("NewProvider(%q) error = %v", tc.alias, err)
			continue
		}
		if p.Name() != tc.expected {
			t.Errorf("NewProvider(%q).Name() = %q, expected %q", tc.alias, p.Name(), tc.expected)
		}
	}
}

func TestNewProviderRejectsUnknownName(t *testing.T) {
	_, err := NewProvider("not-a-provider", config.LLMSettings{})
	if err == nil {
		t.Fatal("expected an error for an unknown provider name")
	}
	if !strings.Contains(err.Error(), "not-a-provider") {
		t.Errorf("error %q should name the rejected provider", err.Error())
	}
}

func TestNewRouterDisabledYieldsNoRouter(t *testing.T) {
	r, err := NewRouter(config.LLMSettings{Enabled: false})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	if r != nil {
		t.Error("disabled settings should yield no router")
	}
}

func TestNewRouterRejectsInvalidProvider(t *testing.T) {
	_, err := NewRouter(config.LLMSettings{Enabled: true, Provider: "bogus"})
	if err == nil {
		t.Fatal("expected an error for an invalid provider")
	}
}

func TestNewRouterWiresProviderAndCache(t *testing.T) {
	clearProviderEnv(t)

	r, err := NewRouter(config.LLMSettings{
		Enabled:      true,
		Provider:     "groq",
		CacheEnabled: true,
		CacheDir:     t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewRouter() error = %v", err)
	}
	if r == nil {
		t.Fatal("expected a router")
	}
	if err := r.ClearCache(); err != nil {
		t.Errorf("ClearCache() on a fresh router = %v", err)
	}
}
