package orchestrator

import (
	"context"
	"strings"
	"testing"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/llm"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// fakeMedicalProvider answers the extraction prompt and the medical
// phase-2 prompt with fixed JSON, distinguishing the two by a keyword
// only the phase-2 system prompt contains.
type fakeMedicalProvider struct{}

func (fakeMedicalProvider) Name() string                             { return "gpt-4o-mini" }
func (fakeMedicalProvider) HealthCheck(ctx context.Context) bool     { return true }
func (fakeMedicalProvider) RunPrompt(ctx context.Context, prompt string) (string, error) {
	if strings.Contains(prompt, "medical_line_items") {
		return `{"medical_line_items": [
			{"date_of_service": "2024-01-15", "description": "office visit", "cpt_code": "99213", "patient_responsibility": 50.00},
			{"date_of_service": "2024-01-15", "description": "office visit", "cpt_code": "99213", "patient_responsibility": 50.00}
		]}`, nil
	}
	return `{"document_type": "medical_bill", "patient_name": "John Smith"}`, nil
}

func (fakeMedicalProvider) AnalyzeText(ctx context.Context, text string) (types.AnalysisResult, error) {
	return types.NewAnalysisResult(), nil
}

func TestRunMedicalBillDuplicateCPTProducesDeterministicIssue(t *testing.T) {
	ctx := context.Background()
	registry := llm.NewRegistry(ctx, "heuristic", fakeMedicalProvider{}, &llm.HeuristicProvider{})

	text := `Patient: John Smith
CPT 99213 office visit, Date of Service: 01/15/2024, Patient Responsibility $50.00
CPT 99213 office visit, Date of Service: 01/15/2024, Patient Responsibility $50.00
Allowed Amount: $120.00`

	result := Run(ctx, registry, text, Options{})

	if result.Summary.Failed || result.Summary.Cancelled {
		t.Fatalf("expected success, got summary %+v", result.Summary)
	}

	foundDuplicate := false
	for _, issue := range result.Analysis.Issues {
		if issue.Type == types.IssueDuplicateCharge && issue.Source == types.SourceDeterministic {
			foundDuplicate = true
		}
	}
	if !foundDuplicate {
		t.Fatalf("expected a deterministic duplicate_charge issue, got %+v", result.Analysis.Issues)
	}

	total, ok := result.Analysis.Meta["total_max_savings"]
	if !ok {
		t.Fatalf("expected total_max_savings in meta, got %+v", result.Analysis.Meta)
	}
	_ = total

	provider, ok := result.Analysis.Meta["provider"]
	if !ok || provider != "heuristic" && provider != "gpt-4o-mini" {
		t.Fatalf("expected provider in meta to name the selected analyzer, got %+v", result.Analysis.Meta)
	}
	issueCount, ok := result.Analysis.Meta["issue_count"]
	if !ok || issueCount != len(result.Analysis.Issues) {
		t.Fatalf("expected issue_count in meta to match len(Issues), got %+v for %d issues", result.Analysis.Meta, len(result.Analysis.Issues))
	}
}

func TestRunFallsBackToFallbackAnalyzerWhenOverrideMissing(t *testing.T) {
	ctx := context.Background()
	registry := llm.NewRegistry(ctx, "heuristic", &llm.HeuristicProvider{})

	result := Run(ctx, registry, "some generic text", Options{AnalyzerOverride: "nonexistent"})

	if result.Summary.Failed {
		t.Fatalf("expected success via fallback, got %+v", result.Summary)
	}
	if result.Summary.FallbackUsed == nil {
		t.Fatalf("expected fallback_used to be recorded")
	}
	if result.Summary.FallbackUsed.Requested != "nonexistent" || result.Summary.FallbackUsed.Used != "heuristic" {
		t.Fatalf("unexpected fallback record: %+v", result.Summary.FallbackUsed)
	}
}

func TestRunFailsWhenNoAnalyzerOrFallbackRegistered(t *testing.T) {
	ctx := context.Background()
	registry := llm.NewRegistry(ctx, "nonexistent-fallback")

	result := Run(ctx, registry, "text", Options{AnalyzerOverride: "nonexistent"})

	if !result.Summary.Failed {
		t.Fatalf("expected failure when neither requested nor fallback analyzer is registered")
	}
	if !result.WorkflowLog.Failed {
		t.Fatalf("expected workflow log to record failure")
	}
}

func TestRunCancelledContextReturnsCancelledResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	registry := llm.NewRegistry(context.Background(), "heuristic", &llm.HeuristicProvider{})

	result := Run(ctx, registry, "text", Options{})

	if !result.Summary.Cancelled || !result.WorkflowLog.Cancelled {
		t.Fatalf("expected cancelled result, got %+v", result.Summary)
	}
}

func TestRunInvokesProgressCallbackAtEveryCheckpoint(t *testing.T) {
	ctx := context.Background()
	registry := llm.NewRegistry(ctx, "heuristic", &llm.HeuristicProvider{})

	var phases []types.ProgressPhase
	opts := Options{
		ProgressCallback: func(phase types.ProgressPhase, log types.WorkflowLog) {
			phases = append(phases, phase)
		},
	}
	Run(ctx, registry, "generic text", opts)

	want := []types.ProgressPhase{
		types.PhasePreExtractionActive,
		types.PhaseExtractionActive,
		types.PhaseLineItemsActive,
		types.PhaseAnalysisActive,
		types.PhaseComplete,
	}
	if len(phases) != len(want) {
		t.Fatalf("expected %d checkpoints, got %d: %v", len(want), len(phases), phases)
	}
	for i, p := range want {
		if phases[i] != p {
			t.Fatalf("checkpoint %d: expected %s, got %s", i, p, phases[i])
		}
	}
}
