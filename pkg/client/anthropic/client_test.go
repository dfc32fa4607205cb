package anthropic

import (
	"context"
	"testing"
)

func TestNameIsStable(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if got := New("").Name(); got != "anthropic" {
		t.Errorf("Name() = %q, expected anthropic", got)
	}
}

func TestIsAvailableTracksCredential(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if New("").IsAvailable(context.Background()) {
		t.Error("provider without ANTHROPIC_API_KEY should be unavailable")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	if !New("").IsAvailable(context.Background()) {
		t.Error("provider with ANTHROPIC_API_KEY should be available")
	}
}

func TestModelDefault(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("ANTHROPIC_MODEL", "")
	if c := New(""); c.model != defaultModel {
		t.Errorf("model = %q, expected %q", c.model, defaultModel)
	}
}
