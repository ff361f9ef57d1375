// Package phase2 implements the Phase-2 Line-Item Parser: a
// document-type keyed dispatch table that extracts type-specific line
// items with a second, narrower prompt after phase-1 facts are known.
package phase2

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/llm"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/prompt"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/utils"
)

// Triggers reports whether docType has a phase-2 pass at all, so the
// orchestrator can skip the call and the prompt build entirely for
// document types with no line-item shape (e.g. generic, unknown).
func Triggers(docType types.DocumentType) bool {
	_, ok := parsers[docType]
	return ok
}

// Run invokes the phase-2 prompt for facts.DocumentType, parses the
// response, and attaches the resulting line items to facts. It returns
// the number of items parsed (0 on a non-triggering document type) and
// a Phase2Failed-shaped error on malformed provider output; the caller
// decides whether that's fatal.
func Run(ctx context.Context, provider llm.Provider, text string, facts *types.FactMap) (int, error) {
	parse, ok := parsers[facts.DocumentType]
	if !ok {
		return 0, nil
	}
	req, ok := prompt.BuildPhase2Prompt(facts.DocumentType, text)
	if !ok {
		return 0, nil
	}
	raw, err := provider.RunPrompt(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("phase-2 prompt failed for %s: %w", facts.DocumentType, err)
	}
	cleaned := utils.CleanMarkdown(raw)
	count, err := parse(cleaned, facts)
	if err != nil {
		return 0, fmt.Errorf("phase-2 response parse failed for %s: %w", facts.DocumentType, err)
	}
	return count, nil
}

type parserFunc func(raw string, facts *types.FactMap) (int, error)

var parsers = map[types.DocumentType]parserFunc{
	types.DocMedicalBill:           parseMedical,
	types.DocDentalBill:            parseDental,
	types.DocPharmacyReceipt:       parseReceipt,
	types.DocInsuranceEOB:          parseInsuranceClaim,
	types.DocInsuranceClaimHistory: parseInsuranceClaim,
	types.DocInsuranceDocument:     parseInsuranceClaim,
	types.DocFSAClaimHistory:       parseFSAClaim,
}

func decPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

type rawMedicalItem struct {
	DateOfService         string   `json:"date_of_service"`
	Description           string   `json:"description"`
	CPTCode               *string  `json:"cpt_code"`
	Billed                *float64 `json:"billed"`
	Allowed               *float64 `json:"allowed"`
	PatientResponsibility *float64 `json:"patient_responsibility"`
	Units                 *int     `json:"units"`
}

func parseMedical(raw string, facts *types.FactMap) (int, error) {
	var wrapper struct {
		Items []rawMedicalItem `json:"medical_line_items"`
	}
	if _, err := utils.SmartParse(raw, &wrapper); err != nil {
		return 0, err
	}
	for _, ri := range wrapper.Items {
		facts.MedicalLineItems = append(facts.MedicalLineItems, types.MedicalLineItem{
			DateOfService:         ri.DateOfService,
			Description:           ri.Description,
			CPTCode:               ri.CPTCode,
			Billed:                decPtr(ri.Billed),
			Allowed:               decPtr(ri.Allowed),
			PatientResponsibility: decPtr(ri.PatientResponsibility),
			Units:                 ri.Units,
		})
	}
	return len(wrapper.Items), nil
}

type rawDentalItem struct {
	DateOfService         string   `json:"date_of_service"`
	Description           string   `json:"description"`
	CDTCode               *string  `json:"cdt_code"`
	ToothNumber           *string  `json:"tooth_number"`
	Billed                *float64 `json:"billed"`
	PatientResponsibility *float64 `json:"patient_responsibility"`
}

func parseDental(raw string, facts *types.FactMap) (int, error) {
	var wrapper struct {
		Items []rawDentalItem `json:"dental_line_items"`
	}
	if _, err := utils.SmartParse(raw, &wrapper); err != nil {
		return 0, err
	}
	for _, ri := range wrapper.Items {
		facts.DentalLineItems = append(facts.DentalLineItems, types.DentalLineItem{
			DateOfService:         ri.DateOfService,
			Description:           ri.Description,
			CDTCode:               ri.CDTCode,
			ToothNumber:           ri.ToothNumber,
			Billed:                decPtr(ri.Billed),
			PatientResponsibility: decPtr(ri.PatientResponsibility),
		})
	}
	return len(wrapper.Items), nil
}

type rawReceiptItem struct {
	Description       string   `json:"description"`
	Amount            *float64 `json:"amount"`
	FSAEligible       *bool    `json:"fsa_eligible"`
	EligibilityReason *string  `json:"eligibility_reason"`
}

func parseReceipt(raw string, facts *types.FactMap) (int, error) {
	var wrapper struct {
		Items []rawReceiptItem `json:"receipt_items"`
	}
	if _, err := utils.SmartParse(raw, &wrapper); err != nil {
		return 0, err
	}
	for _, ri := range wrapper.Items {
		amount := decimal.Zero
		if ri.Amount != nil {
			amount = decimal.NewFromFloat(*ri.Amount)
		}
		facts.ReceiptItems = append(facts.ReceiptItems, types.ReceiptItem{
			Description:       ri.Description,
			Amount:            amount,
			FSAEligible:       ri.FSAEligible,
			EligibilityReason: ri.EligibilityReason,
		})
	}
	return len(wrapper.Items), nil
}

type rawInsuranceClaimItem struct {
	Date                  string   `json:"date"`
	Provider              string   `json:"provider"`
	Billed                *float64 `json:"billed"`
	Allowed               *float64 `json:"allowed"`
	InsurancePaid         *float64 `json:"insurance_paid"`
	PatientResponsibility *float64 `json:"patient_responsibility"`
	Status                string   `json:"status"`
}

func parseInsuranceClaim(raw string, facts *types.FactMap) (int, error) {
	var wrapper struct {
		Items []rawInsuranceClaimItem `json:"insurance_claim_items"`
	}
	if _, err := utils.SmartParse(raw, &wrapper); err != nil {
		return 0, err
	}
	for _, ri := range wrapper.Items {
		facts.InsuranceClaimItems = append(facts.InsuranceClaimItems, types.InsuranceClaimItem{
			Date:                  ri.Date,
			Provider:              ri.Provider,
			Billed:                decPtr(ri.Billed),
			Allowed:               decPtr(ri.Allowed),
			InsurancePaid:         decPtr(ri.InsurancePaid),
			PatientResponsibility: decPtr(ri.PatientResponsibility),
			Status:                ri.Status,
		})
	}
	return len(wrapper.Items), nil
}

type rawFSAClaimItem struct {
	DateSubmitted    *string  `json:"date_submitted"`
	Merchant         *string  `json:"merchant"`
	Description      string   `json:"description"`
	AmountSubmitted  *float64 `json:"amount_submitted"`
	AmountReimbursed *float64 `json:"amount_reimbursed"`
	Status           *string  `json:"status"`
}

func parseFSAClaim(raw string, facts *types.FactMap) (int, error) {
	var wrapper struct {
		Items []rawFSAClaimItem `json:"fsa_claim_items"`
	}
	if _, err := utils.SmartParse(raw, &wrapper); err != nil {
		return 0, err
	}
	for _, ri := range wrapper.Items {
		facts.FSAClaimItems = append(facts.FSAClaimItems, types.FSAClaimItem{
			DateSubmitted:    ri.DateSubmitted,
			Merchant:         ri.Merchant,
			Description:      ri.Description,
			AmountSubmitted:  decPtr(ri.AmountSubmitted),
			AmountReimbursed: decPtr(ri.AmountReimbursed),
			Status:           ri.Status,
		})
	}
	return len(wrapper.Items), nil
}
