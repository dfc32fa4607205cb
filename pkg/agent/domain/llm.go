// Package domain declares the capability interfaces the test-generation
// agent consumes. The agent depends only on these shapes; the concrete
// router behind them lives in pkg/llm/router and is wired by pkg/client.
package domain

import (
	"context"

	"github.com/restforge/restforge/pkg/llm"
)

// TextGenerator resolves one generation request to one response. This is
// the hot path the agent drives for suite generation and self-healing
// patch suggestions.
type TextGenerator interface {
	Generate(ctx context.Context, req *llm.Request) (*llm.Response, error)
}

// AvailabilityReporter lists the providers currently able to serve
// requests, in fallback order. Operator-facing diagnostics only.
type AvailabilityReporter interface {
	AvailableProviders(ctx context.Context) []string
}

// CacheClearer drops every cached response, forcing fresh provider calls
// for subsequent requests.
type CacheClearer interface {
	ClearCache() error
}

// GenerationService is the full inbound contract of the generation
// subsystem.
type GenerationService interface {
	TextGenerator
	AvailabilityReporter
	CacheClearer
}
