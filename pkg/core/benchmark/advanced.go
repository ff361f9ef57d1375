package benchmark

// SuiteMetrics is the advanced metrics bundle computed once over an
// entire benchmark run: a model's risk-weighted recall, how its errors
// skew, tail latency, and whether its catch rate justifies its
// inference cost.
type SuiteMetrics struct {
	RiskWeightedRecall float64
	ConservatismIndex  float64
	P95LatencyMS       float64
	ROIRatio           float64
	InferenceCost      float64
}

// ComputeAdvancedMetrics folds a suite of per-patient results and the
// suite-level category aggregation into the advanced metrics bundle.
// totalPotentialSavings is the sum of every issue's max_savings across
// the suite, in the same currency unit costPerSecond is priced in.
func ComputeAdvancedMetrics(results []PatientResult, categories map[string]AggregatedCategory, totalPotentialSavings float64, costPerSecond ...float64) SuiteMetrics {
	var falseNegatives, falsePositives int
	latencies := make([]int64, 0, len(results))
	for _, r := range results {
		if r.Error != "" {
			continue
		}
		falseNegatives += r.FalseNegatives
		falsePositives += r.FalsePositives
		latencies = append(latencies, r.LatencyMS)
	}

	p95 := CalculateP95Latency(latencies)
	roi, cost := CalculateROIRatio(totalPotentialSavings, averageLatency(latencies), costPerSecond...)

	return SuiteMetrics{
		RiskWeightedRecall: CalculateRiskWeightedRecall(categories),
		ConservatismIndex:  CalculateConservatismIndex(falseNegatives, falsePositives),
		P95LatencyMS:       p95,
		ROIRatio:           roi,
		InferenceCost:      cost,
	}
}

func averageLatency(latencies []int64) float64 {
	if len(latencies) == 0 {
		return 0.0
	}
	var sum int64
	for _, l := range latencies {
		sum += l
	}
	return float64(sum) / float64(len(latencies))
}
