// Package llm is the Provider Registry and LLM Provider Abstraction: a
// uniform façade over heterogeneous backends (remote API providers and a
// local heuristic provider) behind one fact/analysis contract.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// Provider is the contract every backend implements, matching §6: a
// name, a health check, and raw prompt execution for phase-2 dispatch.
type Provider interface {
	Name() string
	HealthCheck(ctx context.Context) bool
	RunPrompt(ctx context.Context, prompt string) (string, error)
}

// TextAnalyzer is a provider capable of text-only analysis. Providers
// that cannot accept facts implement only this interface; the orchestrator
// detects the capability with a type assertion instead of catching a
// typed error from a single do-everything call, per the Go translation
// guidance for the source's TypeError-on-unexpected-kwarg pattern.
type TextAnalyzer interface {
	Provider
	AnalyzeText(ctx context.Context, text string) (types.AnalysisResult, error)
}

// FactAwareAnalyzer is a provider capable of fact-aware analysis. The
// orchestrator prefers this capability when present and falls back to
// TextAnalyzer otherwise.
type FactAwareAnalyzer interface {
	Provider
	AnalyzeWithFacts(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error)
}

// ErrAnalyzerUnavailable is returned by Resolve when neither the
// requested provider nor the configured fallback is registered.
var ErrAnalyzerUnavailable = errors.New("analyzer unavailable")

// Registry holds a read-only-after-init mapping from provider name to a
// live, health-checked provider instance. It is safe for concurrent
// reads from multiple orchestrator runs; it is never written to after
// NewRegistry returns.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	fallback  string
}

// NewRegistry health-checks each candidate and registers only those that
// pass. A panic or failure constructing or checking one candidate must
// not prevent the others from registering — each candidate's health
// check runs in its own recovered call.
func NewRegistry(ctx context.Context, fallback string, candidates ...Provider) *Registry {
	reg := &Registry{providers: map[string]Provider{}, fallback: fallback}
	for _, c := range candidates {
		if c == nil {
			continue
		}
		reg.tryRegister(ctx, c)
	}
	return reg
}

func (r *Registry) tryRegister(ctx context.Context, c Provider) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Warn("provider registration panicked, skipping", "provider", safeName(c), "panic", rec)
		}
	}()
	if c.HealthCheck(ctx) {
		r.providers[c.Name()] = c
	} else {
		slog.Warn("provider failed health check, skipping", "provider", c.Name())
	}
}

func safeName(c Provider) (name string) {
	defer func() {
		if recover() != nil {
			name = "unknown"
		}
	}()
	return c.Name()
}

// Get returns the provider registered under name, if any.
func (r *Registry) Get(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Resolve looks up name; if absent, it tries the configured fallback.
// usedName reports which name was actually resolved so the caller can
// record fallback_used when it differs from the request.
func (r *Registry) Resolve(name string) (provider Provider, usedName string, err error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[name]; ok {
		return p, name, nil
	}
	if p, ok := r.providers[r.fallback]; ok {
		return p, r.fallback, nil
	}
	return nil, "", fmt.Errorf("%w: requested %q, fallback %q not registered", ErrAnalyzerUnavailable, name, r.fallback)
}

// Names returns every currently registered provider name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for n := range r.providers {
		names = append(names, n)
	}
	return names
}
