// Package llm defines the value objects and the provider contract shared by
// the routing, caching, and client packages. Concrete backends live under
// pkg/client; the orchestration lives in pkg/llm/router.
package llm

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Defaults applied by EffectiveTemperature / EffectiveMaxTokens. All providers
// go through these accessors so the request a provider sees matches the
// request the cache hashed. Per-provider fallback constants would silently
// fork the cache-key semantics.
const (
	DefaultTemperature = 0.2
	DefaultMaxTokens   = 4096
)

// Request describes one generation request. It is a value object: construct
// it, don't mutate it. The same struct is the unit of work for providers and
// the cache-key input, so absent optional fields must stay absent (nil / zero)
// rather than being filled in by callers.
type Request struct {
	// Prompt is the user prompt. Required, non-empty.
	Prompt string `json:"prompt"`

	// SystemPrompt is an optional system instruction.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Temperature is optional; nil means "use the default". Conventionally 0-1.
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens caps the output length; 0 means "use the default".
	MaxTokens int `json:"max_tokens,omitempty"`

	// Schema, when set, asks the provider for JSON output conforming to the
	// given JSON Schema. Providers without native structured output inline it
	// into the system prompt instead.
	Schema map[string]any `json:"schema,omitempty"`
}

// Validate checks the request invariants common to all providers.
func (r *Request) Validate() error {
	if r == nil {
		return errors.New("request is nil")
	}
	if r.Prompt == "" {
		return errors.New("prompt must not be empty")
	}
	return nil
}

// EffectiveTemperature returns the temperature to send upstream.
func (r *Request) EffectiveTemperature() float64 {
	if r.Temperature != nil {
		return *r.Temperature
	}
	return DefaultTemperature
}

// EffectiveMaxTokens returns the output token cap to send upstream.
func (r *Request) EffectiveMaxTokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}

// SchemaInstruction renders the schema as a prompt instruction for backends
// without native structured output. Returns "" when no schema is set.
func (r *Request) SchemaInstruction() string {
	if r.Schema == nil {
		return ""
	}
	raw, err := json.Marshal(r.Schema)
	if err != nil {
		return ""
	}
	return "Respond with a single JSON object conforming to this JSON Schema, with no surrounding prose:\n" + string(raw)
}

// Response is the uniform result every provider translates its wire format
// into. Provenance travels with the value: Provider names the backend that
// produced the content and Cached reports whether it was served from the
// local response cache.
type Response struct {
	Content    string `json:"content"`
	Provider   string `json:"provider"`
	TokensUsed int    `json:"tokens_used"` // 0 = unknown
	Cached     bool   `json:"cached"`
}

// Provider is the contract every concrete LLM backend satisfies.
type Provider interface {
	// Name returns the constant lowercase identifier ("groq", "openai", ...).
	// It must be unique within a router's provider list; it keys logs and
	// cache provenance.
	Name() string

	// IsAvailable reports whether the provider is currently usable. It never
	// returns an error: a missing credential answers false. Implementations
	// that probe a network endpoint must apply their own short timeout so one
	// unreachable backend cannot stall the fallback chain.
	IsAvailable(ctx context.Context) bool

	// Generate resolves the request against the backend. Failures are
	// reported as *ProviderError. Implementations must not return a response
	// with empty content: an unexpectedly shaped upstream payload is an
	// error, not an empty success.
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// SchemaFor builds a Request schema from a Go type using JSON reflection,
// so callers can ask for structured output without hand-writing JSON Schema.
func SchemaFor[T any]() (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	var zero T
	schema := reflector.ReflectFromType(reflect.TypeOf(zero))

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal generated schema")
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode generated schema")
	}
	return m, nil
}
