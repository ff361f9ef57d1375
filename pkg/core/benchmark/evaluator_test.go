package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

func code(c string) *string { return &c }

func TestEvaluateDetectionMatchesByCPTCode(t *testing.T) {
	expected := []ExpectedIssue{
		{Type: "duplicate_charge", CPTCode: code("99213")},
	}
	detected := []types.Issue{
		{Type: types.IssueDuplicateCharge, Summary: "charged twice", Evidence: "cpt 99213 billed twice", Code: code("99213")},
	}
	tp, fp, fn, _, breakdown, _, _ := EvaluateDetection(expected, detected)
	assert.Equal(t, 1, tp)
	assert.Equal(t, 0, fp)
	assert.Equal(t, 0, fn)
	assert.Equal(t, 1, breakdown["duplicate_charge"].TruePositives)
}

func TestEvaluateDetectionMatchesByKeywordWhenNoCPTHit(t *testing.T) {
	expected := []ExpectedIssue{
		{Type: "gender_specific_contradiction"},
	}
	detected := []types.Issue{
		{Type: types.IssueGenderSpecificContradiction, Summary: "obstetric ultrasound billed for male patient", Evidence: "gender specific mismatch"},
	}
	tp, _, _, _, _, _, _ := EvaluateDetection(expected, detected)
	assert.Equal(t, 1, tp)
}

func TestEvaluateDetectionUnmatchedDetectedIsFalsePositive(t *testing.T) {
	expected := []ExpectedIssue{}
	detected := []types.Issue{
		{Type: types.IssueOther, Summary: "irrelevant", Evidence: "noise"},
	}
	tp, fp, fn, _, _, _, _ := EvaluateDetection(expected, detected)
	assert.Equal(t, 0, tp)
	assert.Equal(t, 1, fp)
	assert.Equal(t, 0, fn)
}

func TestEvaluateDetectionUnmatchedExpectedIsFalseNegative(t *testing.T) {
	expected := []ExpectedIssue{
		{Type: "upcoding", CPTCode: code("99215")},
	}
	detected := []types.Issue{}
	tp, fp, fn, _, _, _, _ := EvaluateDetection(expected, detected)
	assert.Equal(t, 0, tp)
	assert.Equal(t, 0, fp)
	assert.Equal(t, 1, fn)
}

func TestEvaluateDetectionEachExpectedMatchesAtMostOnce(t *testing.T) {
	expected := []ExpectedIssue{
		{Type: "duplicate_charge", CPTCode: code("99213")},
	}
	detected := []types.Issue{
		{Type: types.IssueDuplicateCharge, Summary: "dup 1", Evidence: "cpt 99213", Code: code("99213")},
		{Type: types.IssueDuplicateCharge, Summary: "dup 2", Evidence: "cpt 99213", Code: code("99213")},
	}
	tp, fp, fn, _, _, _, _ := EvaluateDetection(expected, detected)
	assert.Equal(t, 1, tp)
	assert.Equal(t, 1, fp)
	assert.Equal(t, 0, fn)
}

func TestEvaluateDetectionDomainKnowledgeScore(t *testing.T) {
	expected := []ExpectedIssue{
		{Type: "medical_necessity", CPTCode: code("J1234"), RequiresDomainKnowledge: true},
		{Type: "duplicate_charge", CPTCode: code("99213"), RequiresDomainKnowledge: false},
	}
	detected := []types.Issue{
		{Type: types.IssueOther, Summary: "medical necessity flag", Evidence: "j1234 not medically necessary"},
	}
	_, _, _, domainScore, _, domainRecall, genericRecall := EvaluateDetection(expected, detected)
	assert.InDelta(t, 100.0, domainScore, 1e-9)
	assert.InDelta(t, 1.0, domainRecall, 1e-9)
	assert.InDelta(t, 0.0, genericRecall, 1e-9)
}

func TestAggregateDomainBreakdownSumsAcrossPatientsSkippingErrors(t *testing.T) {
	results := []PatientResult{
		{DomainBreakdown: map[string]CategoryBreakdown{"duplicate_charge": {TruePositives: 1, Total: 2}}},
		{DomainBreakdown: map[string]CategoryBreakdown{"duplicate_charge": {TruePositives: 1, Total: 1}}},
		{Error: "provider unavailable", DomainBreakdown: map[string]CategoryBreakdown{"duplicate_charge": {TruePositives: 0, Total: 5}}},
	}
	aggregated := AggregateDomainBreakdown(results)
	got := aggregated["duplicate_charge"]
	assert.Equal(t, 2, got.TotalDetected)
	assert.Equal(t, 3, got.TotalCases)
	assert.InDelta(t, 2.0/3.0, got.Recall, 1e-9)
}

func TestAggregateParentCategoriesCombinesAgeSubtypesFromTotals(t *testing.T) {
	aggregated := map[string]AggregatedCategory{
		"age_inappropriate":           {TotalDetected: 1, TotalCases: 2},
		"age_inappropriate_procedure": {TotalDetected: 2, TotalCases: 2},
		"age_inappropriate_screening": {TotalDetected: 0, TotalCases: 1},
	}
	parents := AggregateParentCategories(aggregated)
	parent := parents["age_inappropriate_service"]
	assert.Equal(t, 3, parent.TotalDetected)
	assert.Equal(t, 5, parent.TotalCases)
	assert.InDelta(t, 3.0/5.0, parent.Recall, 1e-9)
	assert.Len(t, parent.Subtypes, 3)
}

func TestAggregateParentCategoriesEmptyWhenNoSubtypesPresent(t *testing.T) {
	parents := AggregateParentCategories(map[string]AggregatedCategory{"duplicate_charge": {TotalDetected: 1, TotalCases: 1}})
	assert.Empty(t, parents)
}
