package types

import "github.com/shopspring/decimal"

// IssueType enumerates the finding categories the rule engine and the
// LLM analyzers may emit.
type IssueType string

const (
	IssueDuplicateCharge               IssueType = "duplicate_charge"
	IssueBillingError                  IssueType = "billing_error"
	IssueNonCoveredService             IssueType = "non_covered_service"
	IssueOverbilling                   IssueType = "overbilling"
	IssueInsuranceIssue                IssueType = "insurance_issue"
	IssueFSAIssue                      IssueType = "fsa_issue"
	IssueGenderSpecificContradiction   IssueType = "gender_specific_contradiction"
	IssueAgeInappropriateProcedure     IssueType = "age_inappropriate_procedure"
	IssueAgeInappropriateScreening     IssueType = "age_inappropriate_screening"
	IssueAnatomicalContradiction       IssueType = "anatomical_contradiction"
	IssueTemporalViolation             IssueType = "temporal_violation"
	IssueInconsistentWithHealthHistory IssueType = "inconsistent_with_health_history"
	IssueOther                         IssueType = "other"
)

// IssueSource records who produced an issue.
type IssueSource string

const (
	SourceDeterministic IssueSource = "deterministic"
	SourceLLM           IssueSource = "llm"
	SourceEnsemble      IssueSource = "ensemble"
)

// Issue is a single detected finding, rule-based or model-produced.
type Issue struct {
	Type              IssueType        `json:"type"`
	Summary           string           `json:"summary"`
	Evidence          string           `json:"evidence"`
	Code              *string          `json:"code,omitempty"`
	Date              *string          `json:"date,omitempty"`
	MaxSavings        *decimal.Decimal `json:"max_savings,omitempty"`
	RecommendedAction *string          `json:"recommended_action,omitempty"`
	Source            IssueSource      `json:"source"`
	Confidence        float64          `json:"confidence"`
}

// AnalysisResult is the output of an analyzer run: an ordered issue list
// plus the meta map carrying the savings invariant and provenance.
type AnalysisResult struct {
	Issues []Issue        `json:"issues"`
	Meta   map[string]any `json:"meta"`
}

// NewAnalysisResult returns an empty result with an initialized meta map.
func NewAnalysisResult() AnalysisResult {
	return AnalysisResult{Issues: []Issue{}, Meta: map[string]any{}}
}
