// Package normalize canonicalizes fact maps: strings are trimmed and
// lowercased, dates and times are parsed against an ordered format list
// and re-emitted in a fixed canonical form, and identifiers are trimmed
// only. Normalize never raises — unparseable values become absent.
package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// dateInputFormats mirrors the original extractor's accepted formats,
// tried in order: long month name, short month name, US slash form, ISO.
var dateInputFormats = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"2006-01-02",
}

// timeInputFormats are tried in order: 12-hour with AM/PM, 24-hour.
var timeInputFormats = []string{
	"3:04 PM",
	"15:04",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Facts canonicalizes every known key of a fact map per its semantic
// group. It always succeeds: values that fail to parse become absent
// rather than erroring out, so extraction can never be derailed by a
// malformed date or time string.
func Facts(f *types.FactMap) *types.FactMap {
	if f == nil {
		return types.NewFactMap()
	}
	out := *f

	out.PatientName = normalizeString(f.PatientName)
	out.ProviderName = normalizeString(f.ProviderName)
	out.FacilityName = normalizeString(f.FacilityName)
	out.Address = normalizeString(f.Address)

	out.DateOfBirth = normalizeDate(f.DateOfBirth)
	out.DateOfService = normalizeDate(f.DateOfService)
	out.DateRangeStart = normalizeDate(f.DateRangeStart)
	out.DateRangeEnd = normalizeDate(f.DateRangeEnd)

	out.TimeOfService = normalizeTime(f.TimeOfService)

	out.PhoneNumber = normalizeIdentifier(f.PhoneNumber)
	out.ProcedureCode = normalizeIdentifier(f.ProcedureCode)
	out.ReceiptNumber = normalizeIdentifier(f.ReceiptNumber)
	out.StoreID = normalizeIdentifier(f.StoreID)

	if !types.ValidDocumentTypes[out.DocumentType] {
		out.DocumentType = types.DocUnknown
	}

	return &out
}

func normalizeString(v *string) *string {
	if v == nil {
		return nil
	}
	cleaned := whitespaceRe.ReplaceAllString(strings.TrimSpace(*v), " ")
	if cleaned == "" {
		return nil
	}
	lowered := strings.ToLower(cleaned)
	return &lowered
}

func normalizeIdentifier(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeDate(v *string) *string {
	if v == nil {
		return nil
	}
	raw := strings.TrimSpace(*v)
	if raw == "" {
		return nil
	}
	for _, layout := range dateInputFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			iso := t.Format("2006-01-02")
			return &iso
		}
	}
	return nil
}

func normalizeTime(v *string) *string {
	if v == nil {
		return nil
	}
	raw := strings.TrimSpace(*v)
	if raw == "" {
		return nil
	}
	for _, layout := range timeInputFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			out := t.Format("15:04")
			return &out
		}
	}
	return nil
}
