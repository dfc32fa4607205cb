package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorKind classifies a provider failure for logging and diagnostics. The
// router treats every kind the same way (record and try the next provider);
// the classification exists so operators can tell throttling from outages.
type ErrorKind string

const (
	ErrorKindRateLimit ErrorKind = "rate_limit"
	ErrorKindTimeout   ErrorKind = "timeout"
	ErrorKindAPI       ErrorKind = "api_error"
)

// ProviderError wraps a single backend failure: missing credential, transport
// failure, non-2xx status, or a malformed response body.
type ProviderError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError builds a ProviderError, deriving the kind from the cause.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     ClassifyError(err),
		Err:      err,
	}
}

// ClassifyError derives an ErrorKind from status markers in the error chain.
// Upstream SDKs surface throttling and deadlines inconsistently, so this
// checks context errors, net timeouts, and common message fragments.
func ClassifyError(err error) ErrorKind {
	if err == nil {
		return ErrorKindAPI
	}

	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "quota"):
		return ErrorKindRateLimit
	case strings.Contains(msg, "timeout"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "deadline exceeded"):
		return ErrorKindTimeout
	default:
		return ErrorKindAPI
	}
}

// Attempt records one failed provider call inside a fallback traversal.
type Attempt struct {
	Provider string
	Err      error
}

// ExhaustedError is the single hard failure the router surfaces: every
// configured provider was unavailable or failed. The message names each
// attempted provider with its specific error so the whole chain stays
// diagnosable from one log line.
type ExhaustedError struct {
	Attempts []Attempt
}

func (e *ExhaustedError) Error() string {
	if len(e.Attempts) == 0 {
		return "all providers failed: no provider was available"
	}

	var b strings.Builder
	b.WriteString("all providers failed: ")
	for i, a := range e.Attempts {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %v", a.Provider, a.Err)
	}
	return b.String()
}
