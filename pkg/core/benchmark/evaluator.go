package benchmark

import (
	"encoding/json"
	"strings"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// categoryStat accumulates per-category counts while EvaluateDetection
// walks a single patient's expected/detected pair.
type categoryStat struct {
	truePositives  int
	falseNegatives int
	total          int
}

// EvaluateDetection matches a patient's detected issues against their
// ground-truth catalog. Detected issues are scanned in order; each is
// matched against the first still-unmatched expected issue, in catalog
// order, whose CPT code appears in the detected issue's serialized form
// or whose type keywords (its underscore-separated words) appear there.
// Both checks are applied to one expected issue before moving to the
// next. Each expected issue can be consumed by at most one detected
// issue. Unmatched detected issues are false positives; unmatched
// expected issues are false negatives.
func EvaluateDetection(expected []ExpectedIssue, detected []types.Issue) (
	truePositives, falsePositives, falseNegatives int,
	domainKnowledgeScore float64,
	domainBreakdown map[string]CategoryBreakdown,
	domainRecall, genericRecall float64,
) {
	matchedExpected := make([]bool, len(expected))
	matchedDetected := make([]bool, len(detected))

	stats := map[string]*categoryStat{}
	for _, e := range expected {
		s, ok := stats[e.Type]
		if !ok {
			s = &categoryStat{}
			stats[e.Type] = s
		}
		s.total++
	}

	for di, d := range detected {
		haystack := serializeIssue(d)
		for ei, e := range expected {
			if matchedExpected[ei] {
				continue
			}
			if !issueMatches(e, haystack) {
				continue
			}
			matchedExpected[ei] = true
			matchedDetected[di] = true
			stats[e.Type].truePositives++
			break
		}
	}

	var domainIssues, domainDetections, genericIssues, genericDetections int
	for ei, e := range expected {
		if !matchedExpected[ei] {
			stats[e.Type].falseNegatives++
		}
		if e.RequiresDomainKnowledge {
			domainIssues++
			if matchedExpected[ei] {
				domainDetections++
			}
		} else {
			genericIssues++
			if matchedExpected[ei] {
				genericDetections++
			}
		}
	}

	for _, ok := range matchedDetected {
		if ok {
			truePositives++
		}
	}
	falsePositives = len(detected) - truePositives
	falseNegatives = len(expected) - truePositives

	if domainIssues > 0 {
		domainKnowledgeScore = float64(domainDetections) / float64(domainIssues) * 100
		domainRecall = float64(domainDetections) / float64(domainIssues)
	}
	if genericIssues > 0 {
		genericRecall = float64(genericDetections) / float64(genericIssues)
	}

	domainBreakdown = map[string]CategoryBreakdown{}
	for category, s := range stats {
		domainBreakdown[category] = categoryBreakdownFromStat(s)
	}
	return
}

func categoryBreakdownFromStat(s *categoryStat) CategoryBreakdown {
	b := CategoryBreakdown{TruePositives: s.truePositives, FalseNegatives: s.falseNegatives, Total: s.total}
	if s.total > 0 {
		b.Recall = float64(s.truePositives) / float64(s.total)
	}
	// False positives aren't attributable to a ground-truth category, so
	// per-category precision collapses to recall over the category's own
	// totals.
	b.Precision = b.Recall
	if b.Precision+b.Recall > 0 {
		b.F1 = 2 * b.Precision * b.Recall / (b.Precision + b.Recall)
	}
	return b
}

func issueMatches(e ExpectedIssue, haystackLower string) bool {
	if e.CPTCode != nil && *e.CPTCode != "" {
		if strings.Contains(haystackLower, strings.ToLower(*e.CPTCode)) {
			return true
		}
	}
	for _, keyword := range strings.Split(e.Type, "_") {
		if keyword == "" {
			continue
		}
		if strings.Contains(haystackLower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func serializeIssue(issue types.Issue) string {
	raw, err := json.Marshal(issue)
	if err != nil {
		return strings.ToLower(issue.Summary + " " + issue.Evidence)
	}
	return strings.ToLower(string(raw))
}

// AggregateDomainBreakdown sums tp/fn/total per category across a suite
// of patient results (skipping any result that recorded an error), then
// derives precision/recall/F1 from those summed totals rather than
// averaging each patient's own ratios.
func AggregateDomainBreakdown(results []PatientResult) map[string]AggregatedCategory {
	totals := map[string]*categoryStat{}
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		for category, b := range r.DomainBreakdown {
			s, ok := totals[category]
			if !ok {
				s = &categoryStat{}
				totals[category] = s
			}
			s.truePositives += b.TruePositives
			s.falseNegatives += b.FalseNegatives
			s.total += b.Total
		}
	}

	aggregated := map[string]AggregatedCategory{}
	for category, s := range totals {
		aggregated[category] = aggregatedFromStat(s)
	}
	return aggregated
}

func aggregatedFromStat(s *categoryStat) AggregatedCategory {
	a := AggregatedCategory{TotalDetected: s.truePositives, TotalMissed: s.falseNegatives, TotalCases: s.total}
	if s.total > 0 {
		a.Recall = float64(s.truePositives) / float64(s.total)
	}
	a.Precision = a.Recall
	if a.Precision+a.Recall > 0 {
		a.F1 = 2 * a.Precision * a.Recall / (a.Precision + a.Recall)
	}
	return a
}

// AggregateParentCategories builds the age_inappropriate_service parent
// category by summing its three subtypes' totals and computing
// recall/precision/F1 from those sums, never from averaging the
// subtypes' own recalls.
func AggregateParentCategories(aggregated map[string]AggregatedCategory) map[string]ParentCategory {
	parents := map[string]ParentCategory{}

	var detected, missed, cases int
	subtypes := map[string]SubtypeSummary{}
	present := false
	for _, subtype := range ageSubtypes {
		c, ok := aggregated[subtype]
		if !ok {
			continue
		}
		present = true
		detected += c.TotalDetected
		missed += c.TotalMissed
		cases += c.TotalCases
		subtypes[subtype] = SubtypeSummary{Recall: c.Recall, Detected: c.TotalDetected, Total: c.TotalCases}
	}
	if !present {
		return parents
	}

	parent := ParentCategory{TotalDetected: detected, TotalMissed: missed, TotalCases: cases, Subtypes: subtypes}
	if cases > 0 {
		parent.Recall = float64(detected) / float64(cases)
	}
	parent.Precision = parent.Recall
	if parent.Precision+parent.Recall > 0 {
		parent.F1 = 2 * parent.Precision * parent.Recall / (parent.Precision + parent.Recall)
	}
	parents["age_inappropriate_service"] = parent
	return parents
}
