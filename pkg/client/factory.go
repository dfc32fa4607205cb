// Package client constructs providers by name and wires them into a router.
// This is the construction boundary: the set of valid provider names is the
// closed enumeration below, checked once here and nowhere else.
package client

import (
	"github.com/pkg/errors"

	"github.com/restforge/restforge/internal/config"
	"github.com/restforge/restforge/pkg/client/anthropic"
	"github.com/restforge/restforge/pkg/client/custom"
	"github.com/restforge/restforge/pkg/client/gemini"
	"github.com/restforge/restforge/pkg/client/groq"
	"github.com/restforge/restforge/pkg/client/ollama"
	"github.com/restforge/restforge/pkg/client/openai"
	"github.com/restforge/restforge/pkg/llm"
	"github.com/restforge/restforge/pkg/llm/cache"
	"github.com/restforge/restforge/pkg/llm/router"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

var logger = pkgLogger.NewComponentLogger("client-factory")

// SupportedProviders lists the valid provider names in the order operators
// usually chain them (fast/cheap first).
var SupportedProviders = []string{"groq", "openai", "anthropic", "gemini", "custom", "ollama"}

// NewProvider creates the provider registered under name. Unknown names are
// an error; a known provider with missing credentials constructs fine and
// reports itself unavailable.
func NewProvider(name string, settings config.LLMSettings) (llm.Provider, error) {
	switch name {
	case "groq":
		return groq.New(settings.Model), nil
	case "openai":
		return openai.New(settings.Model), nil
	case "anthropic", "claude":
		return anthropic.New(settings.Model), nil
	case "gemini":
		return gemini.New(settings.Model)
	case "custom":
		return custom.New(settings.Model), nil
	case "ollama", "local":
		return ollama.New(settings.Model)
	default:
		return nil, errors.Errorf("unsupported LLM provider: %q (supported: %v)", name, SupportedProviders)
	}
}

// NewRouter wires one provider and a fresh cache into a router, per the
// deployment settings. A disabled subsystem yields (nil, nil): generation is
// off, not broken. An invalid or unconstructable provider yields no router
// and logs the reason; there is no retry at construction time.
func NewRouter(settings config.LLMSettings) (*router.Router, error) {
	if !settings.Enabled {
		logger.Info("LLM generation disabled")
		return nil, nil
	}

	provider, err := NewProvider(settings.Provider, settings)
	if err != nil {
		logger.Error("failed to construct LLM provider", "provider", settings.Provider, "error", err)
		return nil, err
	}

	c := cache.New(settings.CacheDir, settings.CacheEnabled)
	logger.Debug("LLM router configured",
		"provider", provider.Name(),
		"cache_enabled", settings.CacheEnabled,
		"cache_dir", settings.CacheDir)

	return router.New(c, provider), nil
}
