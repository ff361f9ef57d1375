package reconcile

import "github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"

// BuildCoverageMatrix marks, for every raw transaction (before
// deduplication), whether its fingerprint was present in its source
// document and the amount that document reported for it. Comparing cells
// across documents for the same fingerprint is how a caller spots an
// amount that drifted between two copies of supposedly the same charge.
func BuildCoverageMatrix(items []types.CanonicalTransaction) *types.CoverageMatrix {
	matrix := types.NewCoverageMatrix()
	for _, item := range items {
		matrix.Set(item.Fingerprint, item.SourceDocumentID, types.CoverageCell{
			Present:          true,
			AmountAsReported: item.Amount,
		})
	}
	return matrix
}
