package classify

import (
	"testing"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

func TestClassifyDentalBill(t *testing.T) {
	text := "Procedure D2750 Crown restoration performed. Lab Fee $500 billed to patient."
	r := Classify(text)
	if r.DocumentType != types.DocDentalBill {
		t.Fatalf("expected dental_bill, got %s", r.DocumentType)
	}
	if r.Scores[types.DocDentalBill] < 3 {
		t.Fatalf("expected dental score >= 3, got %d", r.Scores[types.DocDentalBill])
	}
}

func TestClassifyGenericWhenNoMatches(t *testing.T) {
	r := Classify("the quick brown fox jumps over the lazy dog")
	if r.DocumentType != types.DocGeneric || r.Confidence != 0.0 {
		t.Fatalf("expected generic/0.0, got %s/%v", r.DocumentType, r.Confidence)
	}
	if len(r.Scores) != 0 {
		t.Fatalf("expected empty scores map, got %v", r.Scores)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "CPT 99213, Date of Service 2024-01-15, Patient Responsibility $50, Allowed Amount $120, ICD-10 Z00.00"
	first := Classify(text)
	second := Classify(text)
	if first.DocumentType != second.DocumentType || first.Confidence != second.Confidence {
		t.Fatalf("classify not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassifyDentalOutranksMedicalCPT(t *testing.T) {
	text := "CPT 99213 billed alongside D2750 dental crown restoration."
	r := Classify(text)
	if r.DocumentType != types.DocDentalBill {
		t.Fatalf("expected dental to outrank medical CPT, got %s", r.DocumentType)
	}
}

func TestClassifyEOBBeatsBill(t *testing.T) {
	text := "CPT 99213 Date of Service 2024-01-15. This is an Explanation of Benefits. Insurance Paid $80. Claim Number 12345."
	r := Classify(text)
	if r.DocumentType != types.DocInsuranceEOB {
		t.Fatalf("expected insurance_eob to beat medical_bill, got %s", r.DocumentType)
	}
}

func TestScanPreFacts(t *testing.T) {
	pf := Scan("CPT 99213\nD2750\nRx refill\nline four")
	if !pf.ContainsCPTLike || !pf.ContainsDentalCode || !pf.ContainsRxMarker {
		t.Fatalf("expected all markers present, got %+v", pf)
	}
	if pf.LineCount != 4 {
		t.Fatalf("expected 4 lines, got %d", pf.LineCount)
	}
}
