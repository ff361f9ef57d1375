package llm

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// EnsembleProvider runs two analyzers on the same document and merges
// their findings, deduplicating by procedure/billing code the way the
// patient-level analyzer merges its two prompting passes. It is
// registered under "medgemma-ensemble": MedGemma first, a second
// registered provider second, primary first so a tie in dedup keeps
// MedGemma's wording.
type EnsembleProvider struct {
	Primary   Provider
	Secondary Provider
}

var (
	_ Provider          = (*EnsembleProvider)(nil)
	_ TextAnalyzer      = (*EnsembleProvider)(nil)
	_ FactAwareAnalyzer = (*EnsembleProvider)(nil)
)

func (p *EnsembleProvider) Name() string {
	return "medgemma-ensemble"
}

// HealthCheck requires the primary backend to be reachable; the
// secondary is best-effort and its absence degrades the ensemble to a
// single-model run rather than failing registration outright.
func (p *EnsembleProvider) HealthCheck(ctx context.Context) bool {
	return p.Primary != nil && p.Primary.HealthCheck(ctx)
}

func (p *EnsembleProvider) RunPrompt(ctx context.Context, prompt string) (string, error) {
	if p.Primary == nil {
		return "", fmt.Errorf("%w: ensemble has no primary provider", ErrAnalyzerUnavailable)
	}
	return p.Primary.RunPrompt(ctx, prompt)
}

func (p *EnsembleProvider) AnalyzeText(ctx context.Context, text string) (types.AnalysisResult, error) {
	primary, err := p.runPrimaryText(ctx, text)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	secondary := p.runSecondaryText(ctx, text)
	return merge(p.Name(), primary, secondary), nil
}

func (p *EnsembleProvider) AnalyzeWithFacts(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error) {
	primary, err := p.runPrimaryFacts(ctx, text, facts)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	secondary := p.runSecondaryFacts(ctx, text, facts)
	return merge(p.Name(), primary, secondary), nil
}

func (p *EnsembleProvider) runPrimaryText(ctx context.Context, text string) (types.AnalysisResult, error) {
	if p.Primary == nil {
		return types.AnalysisResult{}, fmt.Errorf("%w: ensemble has no primary provider", ErrAnalyzerUnavailable)
	}
	if a, ok := p.Primary.(TextAnalyzer); ok {
		return a.AnalyzeText(ctx, text)
	}
	return types.NewAnalysisResult(), nil
}

func (p *EnsembleProvider) runPrimaryFacts(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error) {
	if p.Primary == nil {
		return types.AnalysisResult{}, fmt.Errorf("%w: ensemble has no primary provider", ErrAnalyzerUnavailable)
	}
	if a, ok := p.Primary.(FactAwareAnalyzer); ok {
		return a.AnalyzeWithFacts(ctx, text, facts)
	}
	if a, ok := p.Primary.(TextAnalyzer); ok {
		return a.AnalyzeText(ctx, text)
	}
	return types.NewAnalysisResult(), nil
}

// runSecondaryText never fails the ensemble call: a secondary outage
// just reduces coverage back to the primary's own findings.
func (p *EnsembleProvider) runSecondaryText(ctx context.Context, text string) types.AnalysisResult {
	if p.Secondary == nil || !p.Secondary.HealthCheck(ctx) {
		return types.NewAnalysisResult()
	}
	if a, ok := p.Secondary.(TextAnalyzer); ok {
		result, err := a.AnalyzeText(ctx, text)
		if err != nil {
			return types.NewAnalysisResult()
		}
		return result
	}
	return types.NewAnalysisResult()
}

func (p *EnsembleProvider) runSecondaryFacts(ctx context.Context, text string, facts *types.FactMap) types.AnalysisResult {
	if p.Secondary == nil || !p.Secondary.HealthCheck(ctx) {
		return types.NewAnalysisResult()
	}
	if a, ok := p.Secondary.(FactAwareAnalyzer); ok {
		result, err := a.AnalyzeWithFacts(ctx, text, facts)
		if err != nil {
			return types.NewAnalysisResult()
		}
		return result
	}
	return p.runSecondaryText(ctx, text)
}

// merge dedupes by (type, code) when a code is present, falling back to
// (type, summary) otherwise, keeping the first occurrence seen
// (primary's issues first) and relabeling survivors as ensemble output.
func merge(name string, primary, secondary types.AnalysisResult) types.AnalysisResult {
	seen := map[string]bool{}
	var issues []types.Issue
	total := decimal.Zero

	add := func(src []types.Issue) {
		for _, issue := range src {
			key := string(issue.Type) + "|"
			if issue.Code != nil {
				key += *issue.Code
			} else {
				key += issue.Summary
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			issue.Source = types.SourceEnsemble
			issues = append(issues, issue)
			if issue.MaxSavings != nil {
				total = total.Add(*issue.MaxSavings)
			}
		}
	}

	add(primary.Issues)
	add(secondary.Issues)

	return types.AnalysisResult{
		Issues: issues,
		Meta: map[string]any{
			"provider":        name,
			"issue_count":     len(issues),
			"llm_max_savings": total,
		},
	}
}
