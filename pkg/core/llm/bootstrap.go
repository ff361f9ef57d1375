package llm

import "context"

// NewDefaultRegistry builds the standard five-provider registry named in
// the provider contract: the two remote chat-completion backends, the
// local heuristic fallback, the hosted MedGemma endpoint, and an
// ensemble combining MedGemma with the heuristic provider as a
// best-effort second opinion. Candidates that fail their health check
// (e.g. missing API keys) are skipped by NewRegistry, which logs a
// warning for each.
func NewDefaultRegistry(ctx context.Context) *Registry {
	heuristic := &HeuristicProvider{}
	medgemma := &MedGemmaHostedProvider{}
	return NewRegistry(ctx, "heuristic",
		&OpenAIProvider{Model: "gpt-4o-mini"},
		&GeminiProvider{Model: "gemini-1.5-flash"},
		heuristic,
		medgemma,
		&EnsembleProvider{Primary: medgemma, Secondary: heuristic},
	)
}
