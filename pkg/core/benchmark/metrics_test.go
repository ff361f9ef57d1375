package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateRiskWeightedRecallWeighsHighRiskCategoriesMore(t *testing.T) {
	categories := map[string]AggregatedCategory{
		"surgical_history_contradiction": {TotalDetected: 0, TotalCases: 1},
		"duplicate_charge":               {TotalDetected: 1, TotalCases: 1},
	}
	got := CalculateRiskWeightedRecall(categories)
	// weighted: (3*0 + 1*1) / (3*1 + 1*1) = 1/4
	assert.InDelta(t, 0.25, got, 1e-9)
}

func TestCalculateRiskWeightedRecallZeroOnEmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, CalculateRiskWeightedRecall(map[string]AggregatedCategory{}))
}

func TestCalculateConservatismIndexNeutralWhenNoErrors(t *testing.T) {
	assert.Equal(t, 0.5, CalculateConservatismIndex(0, 0))
}

func TestCalculateConservatismIndexAllFalseNegatives(t *testing.T) {
	assert.Equal(t, 1.0, CalculateConservatismIndex(5, 0))
}

func TestCalculateConservatismIndexAllFalsePositives(t *testing.T) {
	assert.Equal(t, 0.0, CalculateConservatismIndex(0, 5))
}

func TestCalculateP95LatencyEmptyIsZero(t *testing.T) {
	assert.Equal(t, 0.0, CalculateP95Latency(nil))
}

func TestCalculateP95LatencySingleValue(t *testing.T) {
	assert.Equal(t, 100.0, CalculateP95Latency([]int64{100}))
}

func TestCalculateP95LatencyUniformDistribution(t *testing.T) {
	latencies := []int64{200, 200, 200, 200, 200}
	assert.Equal(t, 200.0, CalculateP95Latency(latencies))
}

func TestCalculateP95LatencyInterpolates(t *testing.T) {
	latencies := []int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	got := CalculateP95Latency(latencies)
	assert.InDelta(t, 95.5, got, 1e-9)
}

func TestCalculateROIRatioZeroAtZeroLatency(t *testing.T) {
	roi, cost := CalculateROIRatio(1000, 0)
	assert.Equal(t, 0.0, roi)
	assert.Equal(t, 0.0, cost)
}

func TestCalculateROIRatioUsesDefaultCostRate(t *testing.T) {
	roi, cost := CalculateROIRatio(1000, 2000)
	assert.InDelta(t, 0.001, cost, 1e-9)
	assert.InDelta(t, 1000.0/0.001, roi, 1e-6)
}

func TestCalculateHybridComplementarityZeroOnCompleteOverlap(t *testing.T) {
	a := map[string]bool{"duplicate_charge|99213": true}
	b := map[string]bool{"duplicate_charge|99213": true}
	got := CalculateHybridComplementarity(a, b, 0.5, 0.5, 2)
	assert.InDelta(t, 0.0, got, 1e-9)
}

func TestCalculateHybridComplementarityPositiveOnDisjointSets(t *testing.T) {
	a := map[string]bool{"duplicate_charge|99213": true}
	b := map[string]bool{"upcoding|99214": true}
	got := CalculateHybridComplementarity(a, b, 0.5, 0.5, 2)
	assert.Greater(t, got, 0.0)
}

func TestCalculateHybridComplementarityZeroOnNoIssues(t *testing.T) {
	got := CalculateHybridComplementarity(map[string]bool{}, map[string]bool{}, 0, 0, 0)
	assert.Equal(t, 0.0, got)
}
