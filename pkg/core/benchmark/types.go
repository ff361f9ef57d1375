// Package benchmark implements the Benchmark Evaluator: issue matching
// against a ground-truth catalog, per-category and parent-category
// aggregation from summed totals, and the advanced suite-level metrics
// (risk-weighted recall, conservatism index, P95 latency, ROI ratio,
// hybrid complementarity).
package benchmark

// ExpectedIssue is one entry in a patient's ground-truth catalog.
type ExpectedIssue struct {
	Type                    string
	Severity                string
	CPTCode                 *string
	RequiresDomainKnowledge bool
}

// CategoryBreakdown is one category's precision/recall/F1 plus the raw
// counts it was computed from, returned by EvaluateDetection and
// consumed by AggregateDomainBreakdown.
type CategoryBreakdown struct {
	Precision      float64
	Recall         float64
	F1             float64
	TruePositives  int
	FalseNegatives int
	Total          int
}

// PatientResult is one patient's evaluation outcome, the unit the
// suite-level aggregators sum over.
type PatientResult struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
	LatencyMS      int64
	DomainBreakdown map[string]CategoryBreakdown
	Error           string
}

// AggregatedCategory is a category's totals summed across an entire
// patient suite, with precision/recall/F1 computed from those sums
// rather than averaged per-patient.
type AggregatedCategory struct {
	Precision     float64
	Recall        float64
	F1            float64
	TotalDetected int
	TotalMissed   int
	TotalCases    int
}

// ParentCategory aggregates related subcategories (currently just
// age_inappropriate_service) from their summed totals, plus a
// per-subtype breakdown for display.
type ParentCategory struct {
	Precision     float64
	Recall        float64
	F1            float64
	TotalDetected int
	TotalMissed   int
	TotalCases    int
	Subtypes      map[string]SubtypeSummary
}

// SubtypeSummary is a parent category's view of one of its subtypes.
type SubtypeSummary struct {
	Recall   float64
	Detected int
	Total    int
}

// ageSubtypes lists the three subcategories the age_inappropriate_service
// parent category aggregates.
var ageSubtypes = []string{"age_inappropriate", "age_inappropriate_procedure", "age_inappropriate_screening"}
