package prompt

import (
	"fmt"
	"strings"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// Prompt builders are external collaborators from the orchestrator's
// point of view: the rest of the pipeline treats their output as opaque,
// byte-exact strings handed to a provider. This file is the one place
// that knows what those strings look like. Descriptors are registered
// into the shared Registry so a caller can list/inspect what prompts
// exist (e.g. a debugging CLI) without needing to know this package's
// internals.

const (
	CategoryExtraction = "extraction"
	CategoryPhase2     = "phase2"
	CategoryAnalysis   = "analysis"
	CategoryPatient    = "patient"
)

func init() {
	reg := Get()
	_ = reg.Register(&PromptTemplate{
		ID: "extraction.facts", Name: "Fact Extraction", Category: CategoryExtraction,
		Description:  "Extracts the fixed fact-map key set from raw document text.",
		SystemPrompt: extractionSystemPrompt,
	})
	for docType, tmpl := range phase2SystemPrompts {
		_ = reg.Register(&PromptTemplate{
			ID: "phase2." + string(docType), Name: "Phase-2 Line Items: " + string(docType), Category: CategoryPhase2,
			Description:  "Extracts type-specific line items for " + string(docType) + ".",
			SystemPrompt: tmpl,
		})
	}
	_ = reg.Register(&PromptTemplate{
		ID: "analysis.document", Name: "Document Analysis", Category: CategoryAnalysis,
		Description:  "Detects billing issues in a single document.",
		SystemPrompt: analysisSystemPrompt,
	})
	_ = reg.Register(&PromptTemplate{
		ID: "patient.pass1", Name: "Patient Cross-Document Pass 1", Category: CategoryPatient,
		Description:  "Broad detection pass across a patient's document bundle.",
		SystemPrompt: patientPass1SystemPrompt,
	})
	_ = reg.Register(&PromptTemplate{
		ID: "patient.pass2", Name: "Patient Cross-Document Pass 2", Category: CategoryPatient,
		Description:  "Targeted re-check pass focused on categories pass 1 may have missed.",
		SystemPrompt: patientPass2SystemPrompt,
	})
}

const extractionSystemPrompt = `You are extracting structured facts from a healthcare billing document.
Return ONLY a single JSON object with exactly these keys (use null for any value you cannot find):
patient_name, date_of_birth, date_of_service, time_of_service, date_range_start, date_range_end,
provider_name, facility_name, address, phone_number, procedure_code, receipt_number, store_id, document_type.

Rules:
- document_type must be one of: medical_bill, dental_bill, pharmacy_receipt, insurance_eob,
  insurance_claim_history, insurance_document, fsa_claim_history, fsa_receipt, generic, unknown.
- Classification priority when multiple signals are present: dental codes (D followed by four digits)
  outrank CPT codes; reimbursement/EOB language outranks a bare procedure-code listing.
- Dates may appear in any common written form; copy them as written, do not reformat.
- procedure_code, phone_number, receipt_number, and store_id should be copied verbatim.
- Do not invent values. Do not include any text outside the JSON object.`

// BuildExtractionPrompt embeds the raw document text in the fixed
// extraction instruction template.
func BuildExtractionPrompt(documentText string) string {
	sys := Get().MustGetSystemPrompt("extraction.facts")
	return fmt.Sprintf("%s\n\nDOCUMENT TEXT:\n%s", sys, documentText)
}

var phase2SystemPrompts = map[types.DocumentType]string{
	types.DocPharmacyReceipt: `Extract every receipt line item from this pharmacy or FSA-eligible receipt.
Return ONLY JSON: {"receipt_items": [{"description": string, "amount": number, "fsa_eligible": bool|null, "eligibility_reason": string|null}]}`,
	types.DocMedicalBill: `Extract every charge line from this medical bill.
Return ONLY JSON: {"medical_line_items": [{"date_of_service": string, "description": string, "cpt_code": string|null, "billed": number|null, "allowed": number|null, "patient_responsibility": number|null, "units": integer|null}]}`,
	types.DocDentalBill: `Extract every charge line from this dental bill.
Return ONLY JSON: {"dental_line_items": [{"date_of_service": string, "description": string, "cdt_code": string|null, "tooth_number": string|null, "billed": number|null, "patient_responsibility": number|null}]}`,
	types.DocInsuranceEOB: `Extract every claim line from this insurance document.
Return ONLY JSON: {"insurance_claim_items": [{"date": string, "provider": string, "billed": number|null, "allowed": number|null, "insurance_paid": number|null, "patient_responsibility": number|null, "status": string}]}`,
	types.DocInsuranceClaimHistory: `Extract every claim line from this insurance claim history.
Return ONLY JSON: {"insurance_claim_items": [{"date": string, "provider": string, "billed": number|null, "allowed": number|null, "insurance_paid": number|null, "patient_responsibility": number|null, "status": string}]}`,
	types.DocInsuranceDocument: `Extract every claim line from this insurance document.
Return ONLY JSON: {"insurance_claim_items": [{"date": string, "provider": string, "billed": number|null, "allowed": number|null, "insurance_paid": number|null, "patient_responsibility": number|null, "status": string}]}`,
	types.DocFSAClaimHistory: `Extract every submitted claim row from this FSA claim history.
Return ONLY JSON: {"fsa_claim_items": [{"date_submitted": string|null, "merchant": string|null, "description": string, "amount_submitted": number|null, "amount_reimbursed": number|null, "status": string|null}]}`,
}

// BuildPhase2Prompt returns the type-specific line-item prompt for
// docType, or ok=false when the document type has no phase-2 trigger.
func BuildPhase2Prompt(docType types.DocumentType, documentText string) (string, bool) {
	sys, ok := phase2SystemPrompts[docType]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s\n\nDOCUMENT TEXT:\n%s", sys, documentText), true
}

const analysisSystemPrompt = `You are a healthcare billing auditor. Review this document for billing issues.
Be conservative: only report an issue when the evidence is explicit in the text. Use ONLY amounts
explicitly stated in the document; if no amount can be determined with certainty, set max_savings to null.

Issue types: duplicate_charge, billing_error, non_covered_service, overbilling, insurance_issue,
fsa_issue, gender_specific_contradiction, age_inappropriate_procedure, age_inappropriate_screening,
anatomical_contradiction, temporal_violation, inconsistent_with_health_history, other.

Return ONLY a JSON array of issues, each shaped as:
{"type": string, "summary": string, "evidence": string, "code": string|null, "date": string|null,
 "max_savings": number|null, "recommended_action": string|null, "confidence": number}
Return [] if you find nothing.`

// BuildAnalysisPrompt embeds the document text and, when available, the
// extracted fact map as supplementary context for fact-aware analysis.
func BuildAnalysisPrompt(documentText string, facts *types.FactMap) string {
	sys := Get().MustGetSystemPrompt("analysis.document")
	if facts == nil {
		return fmt.Sprintf("%s\n\nDOCUMENT TEXT:\n%s", sys, documentText)
	}
	return fmt.Sprintf("%s\n\nEXTRACTED FACTS:\n%s\n\nDOCUMENT TEXT:\n%s", sys, factsSummary(facts), documentText)
}

func factsSummary(f *types.FactMap) string {
	var b strings.Builder
	write := func(label string, v *string) {
		if v != nil {
			fmt.Fprintf(&b, "%s: %s\n", label, *v)
		}
	}
	write("patient_name", f.PatientName)
	write("date_of_service", f.DateOfService)
	write("provider_name", f.ProviderName)
	write("procedure_code", f.ProcedureCode)
	fmt.Fprintf(&b, "document_type: %s\n", f.DocumentType)
	return b.String()
}

const patientPass1SystemPrompt = `You are reviewing a bundle of healthcare documents for one patient across
seven error categories: anatomical contradiction, temporal violation, gender-specific contradiction,
age-inappropriate procedure, procedure inconsistent with health history, duplicate charges, other.
Use the patient profile to check every procedure against sex, age, and known conditions before
flagging. Return ONLY a JSON array of issues in the same shape used for single-document analysis.`

// BuildPatientPass1Prompt builds the broad detection pass: profile plus
// every document's text concatenated with separators.
func BuildPatientPass1Prompt(profile types.PatientProfile, historyNote string, documents []string) string {
	sys := Get().MustGetSystemPrompt("patient.pass1")
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nPATIENT PROFILE:\n%s\n", sys, profileSummary(profile))
	if historyNote != "" {
		fmt.Fprintf(&b, "\nPRIMARY CARE HISTORY:\n%s\n", historyNote)
	}
	for i, doc := range documents {
		fmt.Fprintf(&b, "\n--- DOCUMENT %d ---\n%s\n", i+1, doc)
	}
	return b.String()
}

const patientPass2SystemPrompt = `You are re-checking a patient's documents for previously missed issues.
Pay particular attention to surgical history keywords (amputation, removal, ectomy, hysterectomy,
appendectomy, nephrectomy) that may contradict a billed procedure. Return ONLY a JSON array of
issues in the same shape used for single-document analysis; return [] if nothing further is found.`

// BuildPatientPass2Prompt builds the targeted second pass, re-listing
// the patient summary plus the categories pass 1 did not cover.
func BuildPatientPass2Prompt(profile types.PatientProfile, missedCategories []string) string {
	sys := Get().MustGetSystemPrompt("patient.pass2")
	return fmt.Sprintf("%s\n\nPATIENT PROFILE:\n%s\n\nCATEGORIES TO RE-CHECK:\n%s",
		sys, profileSummary(profile), strings.Join(missedCategories, ", "))
}

func profileSummary(p types.PatientProfile) string {
	return fmt.Sprintf(
		"name: %s\nage: %d\nsex: %s\nconditions: %s\nallergies: %s\nprior_surgical_history: %s",
		p.Name, p.Age, p.Sex,
		strings.Join(p.Conditions, ", "),
		strings.Join(p.Allergies, ", "),
		strings.Join(p.PriorSurgicalHistory, ", "),
	)
}
