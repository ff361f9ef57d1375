package classify

import "regexp"

var (
	cptLikeRe    = regexp.MustCompile(`\b\d{5}\b`)
	dentalCodeRe = regexp.MustCompile(`(?i)\bD\d{4}\b`)
	rxMarkerRe   = regexp.MustCompile(`(?i)\bRx\b|NDC`)
)

// PreFacts is a fixed-shape structural summary of a document's text,
// used only to pick between heuristic and model extraction and to
// populate the workflow log. It is a pure function of the input text.
type PreFacts struct {
	ContainsCPTLike    bool
	ContainsDentalCode bool
	ContainsRxMarker   bool
	LineCount          int
	CharCount          int
}

// Scan computes the pre-fact structural summary for raw document text.
func Scan(text string) PreFacts {
	lineCount := 1
	for _, r := range text {
		if r == '\n' {
			lineCount++
		}
	}
	return PreFacts{
		ContainsCPTLike:    cptLikeRe.MatchString(text),
		ContainsDentalCode: dentalCodeRe.MatchString(text),
		ContainsRxMarker:   rxMarkerRe.MatchString(text),
		LineCount:          lineCount,
		CharCount:          len([]rune(text)),
	}
}
