package llm

import (
	"context"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// HeuristicProvider is the local, no-network fallback backend. It is
// always healthy and never returns an error: its job is to keep the
// pipeline moving when no remote model key is configured or the caller
// forces offline mode, not to match a remote model's recall.
type HeuristicProvider struct{}

var (
	_ Provider          = (*HeuristicProvider)(nil)
	_ TextAnalyzer      = (*HeuristicProvider)(nil)
	_ FactAwareAnalyzer = (*HeuristicProvider)(nil)
)

func (p *HeuristicProvider) Name() string                      { return "heuristic" }
func (p *HeuristicProvider) HealthCheck(ctx context.Context) bool { return true }

// RunPrompt has no model to run; it returns an empty JSON array. Callers
// that decode an issue array see no issues; callers that decode a JSON
// object (phase-1 fact extraction, the phase-2 line-item parsers) get a
// parse error and take their usual error path.
func (p *HeuristicProvider) RunPrompt(ctx context.Context, prompt string) (string, error) {
	return "[]", nil
}

var duplicateLineRe = regexp.MustCompile(`(?i)duplicate`)

// AnalyzeText scans the raw text for a small set of self-evident
// signals (the word "duplicate" anywhere in the text) rather
// than attempting real clinical reasoning.
func (p *HeuristicProvider) AnalyzeText(ctx context.Context, text string) (types.AnalysisResult, error) {
	var issues []types.Issue
	if duplicateLineRe.MatchString(text) {
		issues = append(issues, types.Issue{
			Type:       types.IssueDuplicateCharge,
			Summary:    "Text contains a duplicate-charge marker",
			Evidence:   "the word 'duplicate' appears in the document text",
			Source:     types.SourceLLM,
			Confidence: 0.3,
		})
	}
	return resultFrom(issues), nil
}

// AnalyzeWithFacts additionally flags denied-looking FSA items directly
// from the fact map's line items, without needing to re-read the text.
func (p *HeuristicProvider) AnalyzeWithFacts(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error) {
	result, _ := p.AnalyzeText(ctx, text)
	if facts == nil {
		return result, nil
	}
	for _, item := range facts.FSAClaimItems {
		if item.AmountSubmitted == nil || item.AmountReimbursed == nil {
			continue
		}
		if item.AmountReimbursed.IsZero() && item.AmountSubmitted.IsPositive() {
			merchant := strings.TrimSpace(types.StringOr(item.Merchant, "unknown merchant"))
			result.Issues = append(result.Issues, types.Issue{
				Type:       types.IssueFSAIssue,
				Summary:    "FSA claim appears to have been fully denied",
				Evidence:   "amount_reimbursed is 0.00 for a submitted claim at " + merchant,
				MaxSavings: item.AmountSubmitted,
				Source:     types.SourceLLM,
				Confidence: 0.4,
			})
		}
	}
	result.Meta["issue_count"] = len(result.Issues)
	return result, nil
}

func resultFrom(issues []types.Issue) types.AnalysisResult {
	total := decimal.Zero
	for _, i := range issues {
		if i.MaxSavings != nil {
			total = total.Add(*i.MaxSavings)
		}
	}
	return types.AnalysisResult{
		Issues: issues,
		Meta: map[string]any{
			"provider":        "heuristic",
			"issue_count":     len(issues),
			"llm_max_savings": total,
		},
	}
}
