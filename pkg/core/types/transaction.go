package types

import "github.com/shopspring/decimal"

// TransactionVariant records which line-item family a canonical
// transaction was derived from.
type TransactionVariant string

const (
	VariantMedical   TransactionVariant = "medical"
	VariantDental    TransactionVariant = "dental"
	VariantPharmacy  TransactionVariant = "pharmacy"
	VariantInsurance TransactionVariant = "insurance"
	VariantFSA       TransactionVariant = "fsa"
)

// CanonicalTransaction is the cross-document-deduplicated representation
// of one billable event, produced by the Transaction Normalizer.
type CanonicalTransaction struct {
	Fingerprint           string
	SourceDocumentID      string
	NormalizedDescription string
	Date                  string
	ProcedureCode         *string
	Amount                *decimal.Decimal
	Provider              *string
	Variant               TransactionVariant
}

// PopulatedFieldCount counts the optional fields that carry a value,
// used by the reconciler's tie-break rule (most-populated record wins).
func (t CanonicalTransaction) PopulatedFieldCount() int {
	n := 0
	if t.ProcedureCode != nil {
		n++
	}
	if t.Amount != nil {
		n++
	}
	if t.Provider != nil {
		n++
	}
	if t.NormalizedDescription != "" {
		n++
	}
	return n
}
