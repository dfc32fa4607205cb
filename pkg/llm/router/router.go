// Package router resolves one generation request to one response using
// cache-then-fallback semantics over an ordered provider chain.
package router

import (
	"context"

	"github.com/restforge/restforge/pkg/llm"
	"github.com/restforge/restforge/pkg/llm/cache"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

// Router holds an immutable ordered provider list and one cache. It keeps no
// per-call state: provenance travels inside the Response (Provider, Cached),
// so a single Router is safe to share across concurrent callers.
type Router struct {
	providers []llm.Provider
	cache     *cache.Cache
	logger    *pkgLogger.Logger
}

// New creates a router trying providers in the given order. Order defines
// fallback priority and is fixed for the router's lifetime.
func New(c *cache.Cache, providers ...llm.Provider) *Router {
	return &Router{
		providers: providers,
		cache:     c,
		logger:    pkgLogger.NewComponentLogger("llm-router"),
	}
}

// Generate resolves req: cache first, then each provider in order until one
// succeeds. Unavailable providers are skipped silently (a configuration
// state, not a failure). A provider failure is recorded and the chain
// continues regardless of its classification. Only total exhaustion is
// surfaced, as a single *llm.ExhaustedError naming every attempt. There is
// no router-level retry and no cross-provider deadline; each provider
// applies its own call timeout.
func (r *Router) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if resp, ok := r.cache.Get(req); ok {
		r.logger.Debug("cache hit", "provider", resp.Provider)
		return resp, nil
	}

	var attempts []llm.Attempt
	for _, p := range r.providers {
		if !p.IsAvailable(ctx) {
			r.logger.Debug("provider unavailable, skipping", "provider", p.Name())
			continue
		}

		resp, err := p.Generate(ctx, req)
		if err != nil {
			r.logger.Warn("provider failed, trying next",
				"provider", p.Name(),
				"kind", string(llm.ClassifyError(err)),
				"error", err)
			attempts = append(attempts, llm.Attempt{Provider: p.Name(), Err: err})
			continue
		}

		r.cache.Set(req, resp)
		r.logger.Debug("request served", "provider", p.Name(), "tokens", resp.TokensUsed)
		return resp, nil
	}

	err := &llm.ExhaustedError{Attempts: attempts}
	r.logger.Error("all providers exhausted", "attempts", len(attempts))
	return nil, err
}

// AvailableProviders probes every provider and returns the names of those
// answering true, in configured order. Diagnostic only; not on the hot path.
func (r *Router) AvailableProviders(ctx context.Context) []string {
	var names []string
	for _, p := range r.providers {
		if p.IsAvailable(ctx) {
			names = append(names, p.Name())
		}
	}
	return names
}

// ClearCache removes every cached response.
func (r *Router) ClearCache() error {
	return r.cache.Clear()
}
