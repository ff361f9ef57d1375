// Package classify implements the document classifier: a regex-scoring
// pass that routes raw text to a document type before any model call.
package classify

import (
	"regexp"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// Result is the classifier's output: the winning document type, its
// confidence (winner's match count over the total match count across all
// types), and the raw per-type score map.
type Result struct {
	DocumentType types.DocumentType
	Confidence   float64
	Scores       map[types.DocumentType]int
}

type pattern struct {
	docType types.DocumentType
	regexes []*regexp.Regexp
}

// tieBreakOrder lists dental before medical before pharmacy before
// insurance — specific before general — per the frozen pattern table.
var tieBreakOrder = []types.DocumentType{
	types.DocDentalBill,
	types.DocMedicalBill,
	types.DocPharmacyReceipt,
	types.DocInsuranceEOB,
}

var patterns = []pattern{
	{
		docType: types.DocMedicalBill,
		regexes: compileAll(`\bCPT\b`, `ICD-10`, `Date of Service`, `Patient Responsibility`, `Allowed Amount`),
	},
	{
		docType: types.DocInsuranceEOB,
		regexes: compileAll(`Explanation of Benefits`, `\bEOB\b`, `Insurance Paid`, `Claim Number`),
	},
	{
		docType: types.DocPharmacyReceipt,
		regexes: compileAll(`\bRx\b`, `NDC`, `Pharmacy`, `Copay`),
	},
	{
		docType: types.DocDentalBill,
		regexes: compileAll(`\bD\d{4}\b`, `Dental`, `Crown`, `Lab Fee`),
	},
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile("(?i)"+e))
	}
	return out
}

// Classify scores text against every recognized document type and
// returns the winner by match count, tie-broken specific-before-general.
// Classify(t) is deterministic: the same text always yields the same
// result, since it consults only compiled regexes against the input.
func Classify(text string) Result {
	scores := map[types.DocumentType]int{}
	total := 0
	for _, p := range patterns {
		count := 0
		for _, re := range p.regexes {
			count += len(re.FindAllStringIndex(text, -1))
		}
		if count > 0 {
			scores[p.docType] += count
			total += count
		}
	}

	if total == 0 {
		return Result{DocumentType: types.DocGeneric, Confidence: 0.0, Scores: map[types.DocumentType]int{}}
	}

	best := types.DocGeneric
	bestScore := -1
	for _, candidate := range tieBreakOrder {
		if s, ok := scores[candidate]; ok && s > bestScore {
			best = candidate
			bestScore = s
		}
	}

	// Edge-case overrides: dental codes outrank CPT codes when both are
	// present, and reimbursement-table markers outweigh procedure codes
	// when both are present (EOB beats bill).
	if scores[types.DocDentalBill] > 0 && scores[types.DocMedicalBill] > 0 {
		best = types.DocDentalBill
	}
	if scores[types.DocInsuranceEOB] > 0 && scores[types.DocMedicalBill] > 0 {
		best = types.DocInsuranceEOB
	}

	return Result{
		DocumentType: best,
		Confidence:   float64(scores[best]) / float64(total),
		Scores:       scores,
	}
}
