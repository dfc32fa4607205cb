package ollama

import "testing"

func TestNameAndModelDefaults(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("OLLAMA_MODEL", "")

	c, err := New("")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Name() != "ollama" {
		t.Errorf("Name() = %q, expected ollama", c.Name())
	}
	if c.model != defaultModel {
		t.Errorf("model = %q, expected %q", c.model, defaultModel)
	}
}

func TestModelFromEnv(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("OLLAMA_MODEL", "qwen2.5-coder")

	c, err := New("")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.model != "qwen2.5-coder" {
		t.Errorf("model = %q, expected the env value", c.model)
	}
}
