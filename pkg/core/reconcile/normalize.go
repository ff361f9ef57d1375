// Package reconcile implements the Transaction Normalizer &
// Cross-Document Reconciler: canonical transaction fingerprinting,
// fingerprint-based deduplication, and coverage matrix construction.
package reconcile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// Fingerprint is a deterministic function of (ISO date, trimmed
// lowercased procedure/CDT/merchant code, amount rounded to cents,
// normalized provider). Two line items agreeing on all four inputs
// always produce the same fingerprint regardless of which document they
// came from.
func Fingerprint(date, code, provider string, amount *decimal.Decimal) string {
	amountCents := "null"
	if amount != nil {
		amountCents = amount.Round(2).StringFixed(2)
	}
	normalizedCode := strings.ToLower(strings.TrimSpace(code))
	normalizedProvider := strings.ToLower(strings.TrimSpace(provider))
	input := fmt.Sprintf("%s|%s|%s|%s", strings.TrimSpace(date), normalizedCode, amountCents, normalizedProvider)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// NormalizeLineItems maps every populated line-item slice in facts into
// its canonical transaction form, tagging each with sourceDocumentID for
// later reconciliation.
func NormalizeLineItems(facts *types.FactMap, sourceDocumentID string) []types.CanonicalTransaction {
	if facts == nil {
		return nil
	}
	var out []types.CanonicalTransaction

	for _, item := range facts.MedicalLineItems {
		code := ""
		if item.CPTCode != nil {
			code = *item.CPTCode
		}
		provider := types.StringOr(facts.ProviderName, "")
		out = append(out, types.CanonicalTransaction{
			Fingerprint:           Fingerprint(item.DateOfService, code, provider, item.Billed),
			SourceDocumentID:      sourceDocumentID,
			NormalizedDescription: strings.ToLower(strings.TrimSpace(item.Description)),
			Date:                  item.DateOfService,
			ProcedureCode:         item.CPTCode,
			Amount:                item.Billed,
			Provider:              facts.ProviderName,
			Variant:               types.VariantMedical,
		})
	}

	for _, item := range facts.DentalLineItems {
		code := ""
		if item.CDTCode != nil {
			code = *item.CDTCode
		}
		provider := types.StringOr(facts.ProviderName, "")
		out = append(out, types.CanonicalTransaction{
			Fingerprint:           Fingerprint(item.DateOfService, code, provider, item.Billed),
			SourceDocumentID:      sourceDocumentID,
			NormalizedDescription: strings.ToLower(strings.TrimSpace(item.Description)),
			Date:                  item.DateOfService,
			ProcedureCode:         item.CDTCode,
			Amount:                item.Billed,
			Provider:              facts.ProviderName,
			Variant:               types.VariantDental,
		})
	}

	for _, item := range facts.ReceiptItems {
		amount := item.Amount
		out = append(out, types.CanonicalTransaction{
			Fingerprint:           Fingerprint(types.StringOr(facts.DateOfService, ""), item.Description, "", &amount),
			SourceDocumentID:      sourceDocumentID,
			NormalizedDescription: strings.ToLower(strings.TrimSpace(item.Description)),
			Date:                  types.StringOr(facts.DateOfService, ""),
			Amount:                &amount,
			Variant:               types.VariantPharmacy,
		})
	}

	for _, item := range facts.InsuranceClaimItems {
		out = append(out, types.CanonicalTransaction{
			Fingerprint:           Fingerprint(item.Date, item.Provider, item.Provider, item.Billed),
			SourceDocumentID:      sourceDocumentID,
			NormalizedDescription: strings.ToLower(strings.TrimSpace(item.Status)),
			Date:                  item.Date,
			Amount:                item.Billed,
			Provider:              types.Ptr(item.Provider),
			Variant:               types.VariantInsurance,
		})
	}

	for _, item := range facts.FSAClaimItems {
		merchant := types.StringOr(item.Merchant, "")
		date := types.StringOr(item.DateSubmitted, "")
		out = append(out, types.CanonicalTransaction{
			Fingerprint:           Fingerprint(date, merchant, "", item.AmountSubmitted),
			SourceDocumentID:      sourceDocumentID,
			NormalizedDescription: strings.ToLower(strings.TrimSpace(item.Description)),
			Date:                  date,
			Amount:                item.AmountSubmitted,
			Provider:              item.Merchant,
			Variant:               types.VariantFSA,
		})
	}

	return out
}
