package phase2

import (
	"context"
	"testing"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Name() string                                 { return "fake" }
func (f *fakeProvider) HealthCheck(ctx context.Context) bool         { return true }
func (f *fakeProvider) RunPrompt(ctx context.Context, p string) (string, error) {
	return f.response, f.err
}

func TestTriggersOnlyForKnownDocumentTypes(t *testing.T) {
	if !Triggers(types.DocPharmacyReceipt) {
		t.Fatalf("expected pharmacy_receipt to trigger phase-2")
	}
	if Triggers(types.DocGeneric) {
		t.Fatalf("expected generic to not trigger phase-2")
	}
}

func TestRunParsesReceiptItems(t *testing.T) {
	provider := &fakeProvider{response: `{"receipt_items":[{"description":"Lisinopril 10mg","amount":10.00}]}`}
	facts := types.NewFactMap()
	facts.DocumentType = types.DocPharmacyReceipt
	count, err := Run(context.Background(), provider, "some receipt text", facts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 || len(facts.ReceiptItems) != 1 {
		t.Fatalf("expected 1 receipt item, got count=%d items=%+v", count, facts.ReceiptItems)
	}
	if facts.ReceiptItems[0].Description != "Lisinopril 10mg" {
		t.Fatalf("unexpected item: %+v", facts.ReceiptItems[0])
	}
}

func TestRunSkipsNonTriggeringDocumentType(t *testing.T) {
	provider := &fakeProvider{response: "should not be called"}
	facts := types.NewFactMap()
	facts.DocumentType = types.DocGeneric
	count, err := Run(context.Background(), provider, "text", facts)
	if err != nil || count != 0 {
		t.Fatalf("expected no-op for generic document type, got count=%d err=%v", count, err)
	}
}

func TestRunReturnsErrorOnMalformedResponse(t *testing.T) {
	provider := &fakeProvider{response: "not json"}
	facts := types.NewFactMap()
	facts.DocumentType = types.DocMedicalBill
	_, err := Run(context.Background(), provider, "text", facts)
	if err == nil {
		t.Fatalf("expected parse error on malformed phase-2 response")
	}
}
