package extract

import (
	"testing"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

func TestHeuristicExtractorReturnsAllKeysAbsentOnBlankText(t *testing.T) {
	f, err := HeuristicExtractor{}.Extract("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PatientName != nil || f.ProviderName != nil || f.ProcedureCode != nil {
		t.Fatalf("expected absent fields on blank text, got %+v", f)
	}
	if f.DocumentType != types.DocGeneric {
		t.Fatalf("expected generic document type on blank text, got %v", f.DocumentType)
	}
}

func TestHeuristicExtractorFindsPatientAndProcedureCode(t *testing.T) {
	text := "Patient: Jane Doe\nProvider: Springfield Clinic\nCPT 99213 office visit"
	f, err := HeuristicExtractor{}.Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.PatientName == nil || *f.PatientName != "Jane Doe" {
		t.Fatalf("expected patient name Jane Doe, got %v", f.PatientName)
	}
	if f.ProcedureCode == nil || *f.ProcedureCode != "99213" {
		t.Fatalf("expected procedure code 99213, got %v", f.ProcedureCode)
	}
}

func TestHeuristicExtractorPrefersDentalCodeOverCPT(t *testing.T) {
	text := "Dental bill: tooth #14, code D2740 crown, CPT 99213 also referenced"
	f, err := HeuristicExtractor{}.Extract(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ProcedureCode == nil || *f.ProcedureCode != "D2740" {
		t.Fatalf("expected dental code D2740 to win, got %v", f.ProcedureCode)
	}
}
