// Package patient implements the Patient-Level Cross-Document Analyzer:
// a two-pass prompting scheme over a patient's full document bundle.
package patient

import (
	"context"
	"time"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/llm"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/prompt"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/utils"
)

// allCategories enumerates the seven error categories the two-pass
// prompt set reasons about; pass 2 re-checks whichever of these pass 1's
// issues didn't cover.
var allCategories = []string{
	"anatomical_contradiction",
	"temporal_violation",
	"gender_specific_contradiction",
	"age_inappropriate_procedure",
	"inconsistent_with_health_history",
	"duplicate_charge",
	"other",
}

// Result is the output of a single patient-level run.
type Result struct {
	DetectedIssues []types.Issue
	LatencyMS      int64
	Error          error
}

// Analyze builds the combined prompt (profile, optional history note,
// every document concatenated), runs it through provider (pass 1), then
// re-invokes provider on a narrower prompt covering whatever categories
// pass 1 did not surface (pass 2), and deduplicates the two passes by
// procedure code. Latency is measured around the full pair of calls.
func Analyze(ctx context.Context, provider llm.Provider, profile types.PatientProfile, historyNote string, documents []string) Result {
	start := time.Now()

	pass1Prompt := prompt.BuildPatientPass1Prompt(profile, historyNote, documents)
	pass1Issues, err := runPass(ctx, provider, pass1Prompt)
	if err != nil {
		return Result{LatencyMS: time.Since(start).Milliseconds(), Error: err}
	}

	missed := missedCategories(pass1Issues)
	var pass2Issues []types.Issue
	if len(missed) > 0 {
		pass2Prompt := prompt.BuildPatientPass2Prompt(profile, missed)
		pass2Issues, err = runPass(ctx, provider, pass2Prompt)
		if err != nil {
			// A failed second pass degrades to pass-1-only results rather
			// than discarding everything already found.
			pass2Issues = nil
		}
	}

	merged := dedupeByProcedureCode(pass1Issues, pass2Issues)
	return Result{DetectedIssues: merged, LatencyMS: time.Since(start).Milliseconds()}
}

func runPass(ctx context.Context, provider llm.Provider, promptText string) ([]types.Issue, error) {
	raw, err := provider.RunPrompt(ctx, promptText)
	if err != nil {
		return nil, err
	}
	return utils.ParseIssueArray(raw)
}

func missedCategories(issues []types.Issue) []string {
	found := map[string]bool{}
	for _, issue := range issues {
		found[string(issue.Type)] = true
	}
	var missed []string
	for _, category := range allCategories {
		if !found[category] {
			missed = append(missed, category)
		}
	}
	return missed
}

// dedupeByProcedureCode merges two issue lists, keeping pass 1's copy of
// an issue type+code pair when both passes surface it and falling back
// to matching on type+summary when no code is present.
func dedupeByProcedureCode(pass1, pass2 []types.Issue) []types.Issue {
	seen := map[string]bool{}
	var merged []types.Issue

	add := func(issues []types.Issue) {
		for _, issue := range issues {
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
			merged = append(merged, issue)
		}
	}

	add(pass1)
	add(pass2)
	return merged
}
