package utils

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// rawIssue mirrors the JSON shape providers are instructed to emit.
// Missing fields decode as nil or zero; a numeric field sent as a JSON
// string fails the decode of the whole response.
type rawIssue struct {
	Type              string   `json:"type"`
	Summary           string   `json:"summary"`
	Evidence          string   `json:"evidence"`
	Code              *string  `json:"code"`
	Date              *string  `json:"date"`
	MaxSavings        *float64 `json:"max_savings"`
	RecommendedAction *string  `json:"recommended_action"`
	Confidence        float64  `json:"confidence"`
}

// ParseIssueArray strips conversational/code-fence framing from a
// provider's response, repairs malformed JSON where possible, and
// decodes a JSON array of issues. A non-list or unparseable response
// yields an empty slice rather than an error, matching the source
// provider's "default to []" behavior for analysis output.
func ParseIssueArray(raw string) ([]types.Issue, error) {
	cleaned := CleanMarkdown(raw)
	if cleaned == "" {
		return []types.Issue{}, nil
	}

	var rawIssues []rawIssue
	if _, err := SmartParse(cleaned, &rawIssues); err != nil {
		// Some providers (strict JSON-schema mode requires an object
		// root) wrap the array as {"issues": [...]}.
		var wrapper struct {
			Issues []rawIssue `json:"issues"`
		}
		if _, err := SmartParse(cleaned, &wrapper); err != nil {
			return []types.Issue{}, nil
		}
		rawIssues = wrapper.Issues
	}

	return convertRawIssues(rawIssues), nil
}

func convertRawIssues(rawIssues []rawIssue) []types.Issue {
	out := make([]types.Issue, 0, len(rawIssues))
	for _, ri := range rawIssues {
		if ri.Type == "" {
			continue
		}
		issue := types.Issue{
			Type:              types.IssueType(ri.Type),
			Summary:           ri.Summary,
			Evidence:          ri.Evidence,
			Code:              ri.Code,
			Date:              ri.Date,
			RecommendedAction: ri.RecommendedAction,
			Source:            types.SourceLLM,
			Confidence:        ri.Confidence,
		}
		if ri.MaxSavings != nil && *ri.MaxSavings >= 0 {
			d := decimal.NewFromFloat(*ri.MaxSavings).Round(2)
			issue.MaxSavings = &d
		}
		out = append(out, issue)
	}
	return out
}

// BuildAnalysisResult assembles an AnalysisResult from a freshly parsed
// issue list, computing the provider-local meta fields. The orchestrator
// recomputes deterministic_savings/total_max_savings after merging in
// the rule engine's issues; this is the provider's own partial view.
func BuildAnalysisResult(providerName string, issues []types.Issue) types.AnalysisResult {
	llmTotal := decimal.Zero
	for _, i := range issues {
		if i.MaxSavings != nil {
			llmTotal = llmTotal.Add(*i.MaxSavings)
		}
	}
	return types.AnalysisResult{
		Issues: issues,
		Meta: map[string]any{
			"provider":        providerName,
			"issue_count":     len(issues),
			"llm_max_savings": llmTotal,
		},
	}
}

// MarshalIndentSafe is a small convenience wrapper used by the CLI tools
// to render a result without panicking on unencodable types.
func MarshalIndentSafe(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"marshal_error": %q}`, err.Error())
	}
	return string(b)
}
