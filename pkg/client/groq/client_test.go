package groq

import (
	"context"
	"testing"

	"github.com/restforge/restforge/pkg/llm"
)

func TestNameIsStable(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	if got := New("").Name(); got != "groq" {
		t.Errorf("Name() = %q, expected groq", got)
	}
}

func TestModelResolution(t *testing.T) {
	testCases := []struct {
		name     string
		arg      string
		envModel string
		expected string
	}{
		{"argument wins", "llama-3.1-8b-instant", "env-model", "llama-3.1-8b-instant"},
		{"env fallback", "", "env-model", "env-model"},
		{"default fallback", "", "", defaultModel},
	}

	for _, tc := range testCases {
		t.Setenv("GROQ_MODEL", tc.envModel)
		c := New(tc.arg)
		if c.model != tc.expected {
			t.Errorf("%s: model = %q, expected %q", tc.name, c.model, tc.expected)
		}
	}
}

func TestIsAvailableTracksCredential(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	if New("").IsAvailable(context.Background()) {
		t.Error("provider without GROQ_API_KEY should be unavailable")
	}

	t.Setenv("GROQ_API_KEY", "gsk-test")
	if !New("").IsAvailable(context.Background()) {
		t.Error("provider with GROQ_API_KEY should be available")
	}
}

func TestGenerateWithoutKeyFails(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	c := New("")

	_, err := c.Generate(context.Background(), &llm.Request{Prompt: "ping"})
	if err == nil {
		t.Fatal("expected an error without a credential")
	}
}
