package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

func TestFingerprintIsStableAcrossCaseAndWhitespace(t *testing.T) {
	amount := decimal.NewFromFloat(50.00)
	a := Fingerprint(" 2024-01-15 ", " 99213 ", " Springfield Clinic ", &amount)
	b := Fingerprint("2024-01-15", "99213", "springfield clinic", &amount)
	if a != b {
		t.Fatalf("expected equal fingerprints, got %q vs %q", a, b)
	}
}

func TestFingerprintDiffersOnAmount(t *testing.T) {
	a1 := decimal.NewFromFloat(50.00)
	a2 := decimal.NewFromFloat(51.00)
	a := Fingerprint("2024-01-15", "99213", "clinic", &a1)
	b := Fingerprint("2024-01-15", "99213", "clinic", &a2)
	if a == b {
		t.Fatalf("expected different fingerprints for different amounts")
	}
}

func TestDeduplicateTransactionsMergesAcrossDocuments(t *testing.T) {
	amount := decimal.NewFromFloat(50.00)
	fp := Fingerprint("2024-01-15", "99213", "clinic", &amount)
	items := []types.CanonicalTransaction{
		{Fingerprint: fp, SourceDocumentID: "doc-b", Amount: &amount},
		{Fingerprint: fp, SourceDocumentID: "doc-a", Amount: &amount, Provider: types.Ptr("clinic")},
	}
	unique, provenance := DeduplicateTransactions(items)
	if len(unique) != 1 {
		t.Fatalf("expected 1 unique transaction, got %d", len(unique))
	}
	if unique[0].Provider == nil {
		t.Fatalf("expected the more-populated record to be kept, got %+v", unique[0])
	}
	docs := provenance[fp]
	if len(docs) != 2 {
		t.Fatalf("expected provenance to list both documents, got %v", docs)
	}
}

func TestDeduplicateTransactionsTieBreaksOnEarliestSourceDocumentID(t *testing.T) {
	amount := decimal.NewFromFloat(10.00)
	fp := Fingerprint("2024-01-01", "x", "y", &amount)
	items := []types.CanonicalTransaction{
		{Fingerprint: fp, SourceDocumentID: "doc-z"},
		{Fingerprint: fp, SourceDocumentID: "doc-a"},
	}
	unique, _ := DeduplicateTransactions(items)
	if len(unique) != 1 || unique[0].SourceDocumentID != "doc-a" {
		t.Fatalf("expected doc-a to win tie-break, got %+v", unique)
	}
}

func TestBuildCoverageMatrixRecordsPresence(t *testing.T) {
	amount := decimal.NewFromFloat(50.00)
	fp := Fingerprint("2024-01-15", "99213", "clinic", &amount)
	items := []types.CanonicalTransaction{
		{Fingerprint: fp, SourceDocumentID: "doc-a", Amount: &amount},
	}
	matrix := BuildCoverageMatrix(items)
	cell, ok := matrix.Get(fp, "doc-a")
	if !ok || !cell.Present {
		t.Fatalf("expected present cell for doc-a, got %+v ok=%v", cell, ok)
	}
	if _, ok := matrix.Get(fp, "doc-b"); ok {
		t.Fatalf("expected no cell for doc-b")
	}
}
