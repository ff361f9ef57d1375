package extract

import (
	"context"
	"fmt"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/llm"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/prompt"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/utils"
)

// RemoteExtractor builds the provider-agnostic extraction prompt, submits
// it to a backend's raw prompt endpoint, and projects the response onto
// the fixed fact-key set. Unknown keys in the response are discarded
// silently rather than rejected.
type RemoteExtractor struct {
	Provider llm.Provider
}

type rawFacts struct {
	PatientName    *string `json:"patient_name"`
	DateOfBirth    *string `json:"date_of_birth"`
	DateOfService  *string `json:"date_of_service"`
	TimeOfService  *string `json:"time_of_service"`
	DateRangeStart *string `json:"date_range_start"`
	DateRangeEnd   *string `json:"date_range_end"`
	ProviderName   *string `json:"provider_name"`
	FacilityName   *string `json:"facility_name"`
	Address        *string `json:"address"`
	PhoneNumber    *string `json:"phone_number"`
	ProcedureCode  *string `json:"procedure_code"`
	ReceiptNumber  *string `json:"receipt_number"`
	StoreID        *string `json:"store_id"`
	DocumentType   string  `json:"document_type"`
}

// Extract returns ExtractionFailed-shaped errors (caller decides whether
// to fall back to an all-absent fact map); it never panics on malformed
// provider output.
func (r RemoteExtractor) Extract(ctx context.Context, text string) (*types.FactMap, error) {
	if r.Provider == nil {
		return nil, fmt.Errorf("remote extractor has no provider configured")
	}
	req := prompt.BuildExtractionPrompt(text)
	raw, err := r.Provider.RunPrompt(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("extraction prompt failed: %w", err)
	}

	cleaned := utils.CleanMarkdown(raw)
	var parsed rawFacts
	if _, err := utils.SmartParse(cleaned, &parsed); err != nil {
		return nil, fmt.Errorf("extraction response parse failed: %w", err)
	}

	f := types.NewFactMap()
	f.PatientName = parsed.PatientName
	f.DateOfBirth = parsed.DateOfBirth
	f.DateOfService = parsed.DateOfService
	f.TimeOfService = parsed.TimeOfService
	f.DateRangeStart = parsed.DateRangeStart
	f.DateRangeEnd = parsed.DateRangeEnd
	f.ProviderName = parsed.ProviderName
	f.FacilityName = parsed.FacilityName
	f.Address = parsed.Address
	f.PhoneNumber = parsed.PhoneNumber
	f.ProcedureCode = parsed.ProcedureCode
	f.ReceiptNumber = parsed.ReceiptNumber
	f.StoreID = parsed.StoreID

	docType := types.DocumentType(parsed.DocumentType)
	if types.ValidDocumentTypes[docType] {
		f.DocumentType = docType
	} else {
		f.DocumentType = types.DocUnknown
	}

	return f, nil
}
