package reconcile

import (
	"context"
	"fmt"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/extract"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/llm"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/phase2"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// Ledger is the reconciled view of a patient's full document bundle: the
// deduplicated transaction set, which source documents attested to each
// one, and the raw per-document coverage grid the dedup step collapsed.
type Ledger struct {
	Transactions []types.CanonicalTransaction
	Provenance   map[string][]string
	Coverage     *types.CoverageMatrix
}

// BuildLedger extracts facts from every document in a patient's bundle via
// provider, normalizes each document's line items into canonical
// transactions, and reconciles them into one deduplicated ledger with
// cross-document provenance and coverage. A single document's extraction
// failure doesn't abort the whole bundle — it's skipped so the remaining
// documents still reconcile.
func BuildLedger(ctx context.Context, provider llm.Provider, documents []string) (Ledger, error) {
	if len(documents) == 0 {
		return Ledger{}, fmt.Errorf("no documents to reconcile")
	}

	extractor := extract.RemoteExtractor{Provider: provider}
	var all []types.CanonicalTransaction
	for i, doc := range documents {
		facts, err := extractor.Extract(ctx, doc)
		if err != nil {
			continue
		}
		// A phase-2 failure only leaves this document with no line items
		// to normalize.
		_, _ = phase2.Run(ctx, provider, doc, facts)
		docID := fmt.Sprintf("doc-%d", i)
		all = append(all, NormalizeLineItems(facts, docID)...)
	}

	unique, provenance := DeduplicateTransactions(all)
	coverage := BuildCoverageMatrix(all)
	return Ledger{Transactions: unique, Provenance: provenance, Coverage: coverage}, nil
}
