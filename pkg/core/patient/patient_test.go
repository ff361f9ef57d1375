package patient

import (
	"context"
	"strings"
	"testing"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

type fakeProvider struct {
	pass1 string
	pass2 string
	calls int
}

func (f *fakeProvider) Name() string                             { return "fake" }
func (f *fakeProvider) HealthCheck(ctx context.Context) bool     { return true }
func (f *fakeProvider) RunPrompt(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if strings.Contains(prompt, "CATEGORIES TO RE-CHECK") {
		return f.pass2, nil
	}
	return f.pass1, nil
}

func TestAnalyzeGenderSpecificContradiction(t *testing.T) {
	provider := &fakeProvider{
		pass1: `[{"type":"gender_specific_contradiction","summary":"obstetric ultrasound billed for male patient","evidence":"CPT 76805","code":"76805","confidence":0.9}]`,
		pass2: `[]`,
	}
	profile := types.PatientProfile{PatientID: "p1", Name: "John Doe", Age: 30, Sex: types.SexMale}
	result := Analyze(context.Background(), provider, profile, "", []string{"CPT 76805 obstetric ultrasound"})

	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if len(result.DetectedIssues) != 1 || result.DetectedIssues[0].Type != types.IssueGenderSpecificContradiction {
		t.Fatalf("expected one gender_specific_contradiction issue, got %+v", result.DetectedIssues)
	}
}

func TestAnalyzeRunsSecondPassWhenCategoriesMissed(t *testing.T) {
	provider := &fakeProvider{
		pass1: `[{"type":"other","summary":"x","evidence":"e","confidence":0.5}]`,
		pass2: `[{"type":"duplicate_charge","summary":"dup","evidence":"e","code":"99213","confidence":0.8}]`,
	}
	profile := types.PatientProfile{PatientID: "p1", Name: "Jane Doe", Age: 40, Sex: types.SexFemale}
	result := Analyze(context.Background(), provider, profile, "", []string{"doc1", "doc2"})

	if provider.calls != 2 {
		t.Fatalf("expected both passes to run, got %d calls", provider.calls)
	}
	if len(result.DetectedIssues) != 2 {
		t.Fatalf("expected issues from both passes merged, got %+v", result.DetectedIssues)
	}
}

func TestAnalyzeDedupesByProcedureCodeAcrossPasses(t *testing.T) {
	provider := &fakeProvider{
		pass1: `[{"type":"duplicate_charge","summary":"x","evidence":"e","code":"99213","confidence":0.5}]`,
		pass2: `[{"type":"duplicate_charge","summary":"y","evidence":"e","code":"99213","confidence":0.9}]`,
	}
	profile := types.PatientProfile{PatientID: "p1", Name: "Jane Doe", Age: 40, Sex: types.SexFemale}
	result := Analyze(context.Background(), provider, profile, "", []string{"doc1"})

	if len(result.DetectedIssues) != 1 {
		t.Fatalf("expected deduped issue list of length 1, got %+v", result.DetectedIssues)
	}
}
