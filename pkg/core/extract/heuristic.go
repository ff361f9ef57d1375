// Package extract implements the Fact Extractor Adapters: a remote
// LLM-backed adapter and a local regex-only fallback, both returning the
// same fixed-key FactMap shape regardless of what they find.
package extract

import (
	"regexp"
	"strings"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/classify"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

var (
	cptCodeRe      = regexp.MustCompile(`\b\d{5}\b`)
	dentalCodeRe   = regexp.MustCompile(`(?i)\bD\d{4}\b`)
	phoneRe        = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	receiptNumRe   = regexp.MustCompile(`(?i)(?:receipt|transaction|ref)\s*#?\s*:?\s*([A-Za-z0-9-]{4,})`)
	storeIDRe      = regexp.MustCompile(`(?i)store\s*#?\s*:?\s*(\d{1,6})`)
	dateOfServiceRe = regexp.MustCompile(`(?i)date\s*of\s*service\s*:?\s*([0-9/.\-]{6,10})`)
	dateOfBirthRe  = regexp.MustCompile(`(?i)(?:date\s*of\s*birth|dob)\s*:?\s*([0-9/.\-]{6,10})`)
	patientNameRe  = regexp.MustCompile(`(?i)patient\s*(?:name)?\s*:?\s*([A-Za-z][A-Za-z '.-]{1,60})`)
	providerNameRe = regexp.MustCompile(`(?i)provider\s*(?:name)?\s*:?\s*([A-Za-z][A-Za-z0-9 '.,&-]{1,80})`)
	facilityNameRe = regexp.MustCompile(`(?i)facility\s*(?:name)?\s*:?\s*([A-Za-z][A-Za-z0-9 '.,&-]{1,80})`)
	addressRe      = regexp.MustCompile(`(?i)address\s*:?\s*([0-9][A-Za-z0-9 ,.'#-]{5,100})`)
)

// HeuristicExtractor is the local, no-network fact extractor. It matches
// a handful of well-known label patterns; anything it cannot find it
// leaves absent, never guessed.
type HeuristicExtractor struct{}

// Extract never errors: regex misses simply leave a field nil.
func (HeuristicExtractor) Extract(text string) (*types.FactMap, error) {
	f := types.NewFactMap()

	f.DocumentType = classify.Classify(text).DocumentType

	f.PatientName = firstGroup(patientNameRe, text)
	f.DateOfBirth = firstGroup(dateOfBirthRe, text)
	f.DateOfService = firstGroup(dateOfServiceRe, text)
	f.ProviderName = firstGroup(providerNameRe, text)
	f.FacilityName = firstGroup(facilityNameRe, text)
	f.Address = firstGroup(addressRe, text)
	f.ReceiptNumber = firstGroup(receiptNumRe, text)
	f.StoreID = firstGroup(storeIDRe, text)

	if m := phoneRe.FindString(text); m != "" {
		f.PhoneNumber = types.Ptr(m)
	}

	if m := dentalCodeRe.FindString(text); m != "" {
		f.ProcedureCode = types.Ptr(strings.ToUpper(m))
	} else if m := cptCodeRe.FindString(text); m != "" {
		f.ProcedureCode = types.Ptr(m)
	}

	return f, nil
}

func firstGroup(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return types.Ptr(v)
}
