package benchmark

import "sort"

// RiskWeights assigns a severity weight to categories whose misses carry
// outsized clinical or financial risk; any category absent from this map
// defaults to weight 1.
var RiskWeights = map[string]int{
	"surgical_history_contradiction": 3,
	"diagnosis_procedure_mismatch":   3,
	"medical_necessity":              2,
	"upcoding":                       2,
}

func riskWeight(category string) int {
	if w, ok := RiskWeights[category]; ok {
		return w
	}
	return 1
}

// CalculateRiskWeightedRecall weights each category's detected and total
// case counts by its risk weight and returns Σ(w×detected) / Σ(w×cases),
// so a miss in a high-risk category (e.g. a surgical history
// contradiction) costs more than one in a low-risk category. Returns 0.0
// when there is nothing to weigh.
func CalculateRiskWeightedRecall(categories map[string]AggregatedCategory) float64 {
	var weightedDetected, weightedTotal float64
	for category, c := range categories {
		w := float64(riskWeight(category))
		weightedDetected += w * float64(c.TotalDetected)
		weightedTotal += w * float64(c.TotalCases)
	}
	if weightedTotal == 0 {
		return 0.0
	}
	return weightedDetected / weightedTotal
}

// CalculateConservatismIndex measures whether a model's errors skew
// toward over-flagging (false positives, index near 0) or under-flagging
// (false negatives, index near 1). With no errors of either kind the
// model is neither conservative nor aggressive, so the index is defined
// as the neutral midpoint 0.5 rather than an undefined 0/0.
func CalculateConservatismIndex(falseNegatives, falsePositives int) float64 {
	if falseNegatives+falsePositives == 0 {
		return 0.5
	}
	return float64(falseNegatives) / float64(falseNegatives+falsePositives)
}

// CalculateP95Latency returns the 95th percentile of latencies using
// linear interpolation between closest ranks, matching the convention
// most statistics libraries default to. Returns 0.0 for an empty input.
func CalculateP95Latency(latenciesMS []int64) float64 {
	n := len(latenciesMS)
	if n == 0 {
		return 0.0
	}
	sorted := make([]int64, n)
	copy(sorted, latenciesMS)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if n == 1 {
		return float64(sorted[0])
	}

	rank := 0.95 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= n {
		return float64(sorted[n-1])
	}
	frac := rank - float64(lower)
	return float64(sorted[lower]) + frac*float64(sorted[upper]-sorted[lower])
}

// defaultCostPerSecond is the inference cost rate used when a caller
// doesn't supply one.
const defaultCostPerSecond = 0.0005

// CalculateROIRatio converts average inference latency into a cost
// figure and expresses the potential savings a model surfaced as a
// multiple of that cost. Zero latency has no meaningful cost basis, so
// both the ratio and the cost are reported as zero rather than
// dividing by zero.
func CalculateROIRatio(totalPotentialSavings, avgLatencyMS float64, costPerSecond ...float64) (roiRatio, inferenceCost float64) {
	rate := defaultCostPerSecond
	if len(costPerSecond) > 0 {
		rate = costPerSecond[0]
	}
	if avgLatencyMS == 0 {
		return 0.0, 0.0
	}
	inferenceCost = (avgLatencyMS / 1000) * rate
	if inferenceCost == 0 {
		return 0.0, 0.0
	}
	roiRatio = totalPotentialSavings / inferenceCost
	return roiRatio, inferenceCost
}

// CalculateHybridComplementarity measures how much recall a second model
// would add on top of the first's, beyond whichever model already does
// better alone. modelA and modelB are sets of issue identifiers (e.g.
// "type|code") each model detected; identical sets yield 0.0, and
// disjoint sets yield a positive gain proportional to the combined
// unique coverage.
func CalculateHybridComplementarity(modelA, modelB map[string]bool, recallA, recallB float64, totalIssues int) float64 {
	if totalIssues == 0 {
		return 0.0
	}
	var uniqueA, uniqueB, overlap int
	for key := range modelA {
		if modelB[key] {
			overlap++
		} else {
			uniqueA++
		}
	}
	for key := range modelB {
		if !modelA[key] {
			uniqueB++
		}
	}
	combinedCoverage := float64(uniqueA+uniqueB+overlap) / float64(totalIssues)
	best := recallA
	if recallB > best {
		best = recallB
	}
	return combinedCoverage - best
}
