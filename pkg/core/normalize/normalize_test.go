package normalize

import (
	"testing"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

func TestNormalizeIdempotent(t *testing.T) {
	f := types.NewFactMap()
	f.PatientName = types.Ptr("  Jane   DOE ")
	f.DateOfService = types.Ptr("01/15/2024")
	f.TimeOfService = types.Ptr("3:04 PM")
	f.PhoneNumber = types.Ptr(" 555-0100 ")
	f.DocumentType = types.DocMedicalBill

	once := Facts(f)
	twice := Facts(once)

	if *once.PatientName != *twice.PatientName {
		t.Fatalf("not idempotent on PatientName: %q vs %q", *once.PatientName, *twice.PatientName)
	}
	if *once.DateOfService != *twice.DateOfService {
		t.Fatalf("not idempotent on DateOfService: %q vs %q", *once.DateOfService, *twice.DateOfService)
	}
}

func TestNormalizeStringLowercasesAndCollapses(t *testing.T) {
	f := types.NewFactMap()
	f.ProviderName = types.Ptr("  Dr.   SMITH   Clinic ")
	out := Facts(f)
	if *out.ProviderName != "dr. smith clinic" {
		t.Fatalf("unexpected normalized provider: %q", *out.ProviderName)
	}
}

func TestNormalizeDateFormats(t *testing.T) {
	cases := map[string]string{
		"January 15, 2024": "2024-01-15",
		"Jan 15, 2024":     "2024-01-15",
		"01/15/2024":       "2024-01-15",
		"2024-01-15":       "2024-01-15",
	}
	for input, want := range cases {
		f := types.NewFactMap()
		f.DateOfService = types.Ptr(input)
		out := Facts(f)
		if out.DateOfService == nil || *out.DateOfService != want {
			t.Fatalf("input %q: want %q, got %v", input, want, out.DateOfService)
		}
	}
}

func TestNormalizeUnparseableDateIsAbsent(t *testing.T) {
	f := types.NewFactMap()
	f.DateOfService = types.Ptr("not a date")
	out := Facts(f)
	if out.DateOfService != nil {
		t.Fatalf("expected absent, got %v", *out.DateOfService)
	}
}

func TestNormalizeIdentifierTrimsOnlyNoLowercase(t *testing.T) {
	f := types.NewFactMap()
	f.ProcedureCode = types.Ptr("  99213 ")
	f.ReceiptNumber = types.Ptr("  ABC123 ")
	out := Facts(f)
	if *out.ProcedureCode != "99213" {
		t.Fatalf("unexpected procedure code: %q", *out.ProcedureCode)
	}
	if *out.ReceiptNumber != "ABC123" {
		t.Fatalf("identifier should preserve case: %q", *out.ReceiptNumber)
	}
}

func TestNormalizeInvalidDocumentTypeBecomesUnknown(t *testing.T) {
	f := types.NewFactMap()
	f.DocumentType = types.DocumentType("not_a_real_type")
	out := Facts(f)
	if out.DocumentType != types.DocUnknown {
		t.Fatalf("expected unknown, got %s", out.DocumentType)
	}
}

func TestNormalizeNilFactMap(t *testing.T) {
	out := Facts(nil)
	if out.DocumentType != types.DocUnknown {
		t.Fatalf("expected fresh fact map with unknown type, got %s", out.DocumentType)
	}
}
