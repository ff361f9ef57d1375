package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseIssueArrayPlainArray(t *testing.T) {
	raw := `[{"type":"duplicate_charge","summary":"dup","evidence":"ev","code":"99213","max_savings":50.0,"confidence":1.0}]`
	issues, err := ParseIssueArray(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].MaxSavings == nil || !issues[0].MaxSavings.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}

func TestParseIssueArrayWrappedObject(t *testing.T) {
	raw := "```json\n{\"issues\":[{\"type\":\"other\",\"summary\":\"s\",\"evidence\":\"e\",\"confidence\":0.5}]}\n```"
	issues, err := ParseIssueArray(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 1 || issues[0].Type != "other" {
		t.Fatalf("unexpected issues: %+v", issues)
	}
}

func TestParseIssueArrayMalformedReturnsEmpty(t *testing.T) {
	issues, err := ParseIssueArray("not json at all")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected empty slice, got %+v", issues)
	}
}

func TestParseIssueArrayEmptyString(t *testing.T) {
	issues, err := ParseIssueArray("")
	if err != nil || len(issues) != 0 {
		t.Fatalf("expected empty slice with no error, got %+v / %v", issues, err)
	}
}

func TestBuildAnalysisResultSumsSavings(t *testing.T) {
	issues, _ := ParseIssueArray(`[{"type":"other","summary":"a","evidence":"e","max_savings":10.5,"confidence":1},{"type":"other","summary":"b","evidence":"e","max_savings":4.25,"confidence":1}]`)
	result := BuildAnalysisResult("heuristic", issues)
	if result.Meta["issue_count"] != 2 {
		t.Fatalf("expected issue_count 2, got %v", result.Meta["issue_count"])
	}
	total, ok := result.Meta["llm_max_savings"].(decimal.Decimal)
	if !ok || !total.Equal(decimal.NewFromFloat(14.75)) {
		t.Fatalf("expected llm_max_savings 14.75, got %v", result.Meta["llm_max_savings"])
	}
}
