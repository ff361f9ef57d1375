package reconcile

import (
	"sort"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// DeduplicateTransactions groups transactions by fingerprint, keeping
// per group the record with the most populated fields (tie-break:
// earliest source_document_id lexicographically). The provenance map
// records every source document that contributed to each fingerprint,
// in first-seen order.
func DeduplicateTransactions(items []types.CanonicalTransaction) (unique []types.CanonicalTransaction, provenance map[string][]string) {
	provenance = map[string][]string{}
	best := map[string]types.CanonicalTransaction{}
	order := []string{}
	seenSource := map[string]map[string]bool{}

	for _, item := range items {
		fp := item.Fingerprint
		if _, ok := best[fp]; !ok {
			order = append(order, fp)
			best[fp] = item
			seenSource[fp] = map[string]bool{}
		} else if betterCandidate(item, best[fp]) {
			best[fp] = item
		}

		if !seenSource[fp][item.SourceDocumentID] {
			seenSource[fp][item.SourceDocumentID] = true
			provenance[fp] = append(provenance[fp], item.SourceDocumentID)
		}
	}

	for _, fp := range order {
		unique = append(unique, best[fp])
	}
	return unique, provenance
}

// betterCandidate reports whether candidate should replace current as
// the kept canonical record for a fingerprint group.
func betterCandidate(candidate, current types.CanonicalTransaction) bool {
	cCount := candidate.PopulatedFieldCount()
	curCount := current.PopulatedFieldCount()
	if cCount != curCount {
		return cCount > curCount
	}
	ids := []string{candidate.SourceDocumentID, current.SourceDocumentID}
	sort.Strings(ids)
	return ids[0] == candidate.SourceDocumentID && candidate.SourceDocumentID != current.SourceDocumentID
}
