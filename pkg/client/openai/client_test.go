package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/restforge/restforge/pkg/llm"
)

func TestNameIsStable(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if got := New("").Name(); got != "openai" {
		t.Errorf("Name() = %q, expected openai", got)
	}
}

func TestModelResolution(t *testing.T) {
	testCases := []struct {
		name     string
		arg      string
		envModel string
		expected string
	}{
		{"argument wins", "gpt-4o", "env-model", "gpt-4o"},
		{"env fallback", "", "env-model", "env-model"},
		{"default fallback", "", "", defaultModel},
	}

	for _, tc := range testCases {
		t.Setenv("OPENAI_MODEL", tc.envModel)
		c := New(tc.arg)
		if c.model != tc.expected {
			t.Errorf("%s: model = %q, expected %q", tc.name, c.model, tc.expected)
		}
	}
}

func TestIsAvailableTracksCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if New("").IsAvailable(context.Background()) {
		t.Error("provider without OPENAI_API_KEY should be unavailable")
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	if !New("").IsAvailable(context.Background()) {
		t.Error("provider with OPENAI_API_KEY should be available")
	}
}

func TestGenerateWithoutKeyFails(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	c := New("")

	_, err := c.Generate(context.Background(), &llm.Request{Prompt: "ping"})
	if err == nil {
		t.Fatal("expected an error without a credential")
	}

	var pe *llm.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, expected *llm.ProviderError", err)
	}
	if pe.Provider != "openai" {
		t.Errorf("error provider = %q, expected openai", pe.Provider)
	}
}
