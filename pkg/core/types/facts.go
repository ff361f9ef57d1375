// Package types holds the data model shared by every billing-analysis
// component: fact maps, line items, issues, analysis results, workflow
// logs, and the cross-document reconciliation types.
package types

// DocumentType constrains the fact map's document_type value to the set
// the classifier and phase-2 dispatch table recognize.
type DocumentType string

const (
	DocMedicalBill           DocumentType = "medical_bill"
	DocDentalBill            DocumentType = "dental_bill"
	DocPharmacyReceipt       DocumentType = "pharmacy_receipt"
	DocInsuranceEOB          DocumentType = "insurance_eob"
	DocInsuranceClaimHistory DocumentType = "insurance_claim_history"
	DocInsuranceDocument     DocumentType = "insurance_document"
	DocFSAClaimHistory       DocumentType = "fsa_claim_history"
	DocFSAReceipt            DocumentType = "fsa_receipt"
	DocGeneric               DocumentType = "generic"
	DocUnknown               DocumentType = "unknown"
)

// ValidDocumentTypes enumerates every value DocumentType may legally take.
var ValidDocumentTypes = map[DocumentType]bool{
	DocMedicalBill:           true,
	DocDentalBill:            true,
	DocPharmacyReceipt:       true,
	DocInsuranceEOB:          true,
	DocInsuranceClaimHistory: true,
	DocInsuranceDocument:     true,
	DocFSAClaimHistory:       true,
	DocFSAReceipt:            true,
	DocGeneric:               true,
	DocUnknown:               true,
}

// FactMap is the canonical set of document-level facts. Every field is a
// known key; a nil pointer means the key is absent, never an empty string.
// This is deliberately a struct rather than a map[string]string so the
// key set is checked at compile time and adding a key means touching
// every extractor that should populate it.
type FactMap struct {
	PatientName    *string
	DateOfBirth    *string
	DateOfService  *string
	TimeOfService  *string
	DateRangeStart *string
	DateRangeEnd   *string
	ProviderName   *string
	FacilityName   *string
	Address        *string
	PhoneNumber    *string
	ProcedureCode  *string
	ReceiptNumber  *string
	StoreID        *string
	DocumentType   DocumentType

	// Line items, attached by the phase-2 parser after phase-1 facts
	// have been normalized. Absent entries are simply nil slices.
	MedicalLineItems    []MedicalLineItem
	DentalLineItems     []DentalLineItem
	ReceiptItems        []ReceiptItem
	InsuranceClaimItems []InsuranceClaimItem
	FSAClaimItems       []FSAClaimItem
}

// NewFactMap returns a fact map with every key absent and document_type
// unknown — the shape every extractor must return before filling in what
// it found.
func NewFactMap() *FactMap {
	return &FactMap{DocumentType: DocUnknown}
}

// Ptr is a small helper for constructing optional string fields inline.
func Ptr(s string) *string { return &s }

// StringOr returns the dereferenced value or a fallback when absent.
func StringOr(p *string, fallback string) string {
	if p == nil {
		return fallback
	}
	return *p
}
