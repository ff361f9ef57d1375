package rules

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

func dec(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func TestDuplicateMedicalCPTFlagsSecondOccurrence(t *testing.T) {
	cpt := "99213"
	facts := types.NewFactMap()
	facts.MedicalLineItems = []types.MedicalLineItem{
		{DateOfService: "2026-01-05", CPTCode: &cpt, PatientResponsibility: dec(25)},
		{DateOfService: "2026-01-05", CPTCode: &cpt, PatientResponsibility: dec(25)},
	}
	issues := DeterministicIssues(facts)
	if len(issues) != 1 {
		t.Fatalf("expected 1 duplicate issue, got %d: %+v", len(issues), issues)
	}
	if issues[0].Type != types.IssueDuplicateCharge || issues[0].Source != types.SourceDeterministic {
		t.Fatalf("unexpected issue shape: %+v", issues[0])
	}
	if issues[0].MaxSavings == nil || !issues[0].MaxSavings.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected max_savings 25, got %v", issues[0].MaxSavings)
	}
	if issues[0].Confidence != 1.0 {
		t.Fatalf("expected confidence 1.0, got %v", issues[0].Confidence)
	}
}

func TestDuplicateMedicalCPTNoFlagWhenSingleOccurrence(t *testing.T) {
	cpt := "99213"
	facts := types.NewFactMap()
	facts.MedicalLineItems = []types.MedicalLineItem{
		{DateOfService: "2026-01-05", CPTCode: &cpt, PatientResponsibility: dec(25)},
	}
	issues := DeterministicIssues(facts)
	if len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestDuplicateDentalCDTFlagsSecondOccurrence(t *testing.T) {
	cdt := "D2740"
	facts := types.NewFactMap()
	facts.DentalLineItems = []types.DentalLineItem{
		{DateOfService: "2026-02-01", CDTCode: &cdt, PatientResponsibility: dec(100)},
		{DateOfService: "2026-02-01", CDTCode: &cdt, PatientResponsibility: dec(100)},
		{DateOfService: "2026-02-01", CDTCode: &cdt, PatientResponsibility: dec(100)},
	}
	issues := DeterministicIssues(facts)
	if len(issues) != 2 {
		t.Fatalf("expected 2 duplicate issues for a third occurrence, got %d", len(issues))
	}
}

func TestDeniedFSASavingsSumsZeroReimbursedClaims(t *testing.T) {
	facts := types.NewFactMap()
	facts.FSAClaimItems = []types.FSAClaimItem{
		{AmountSubmitted: dec(50), AmountReimbursed: dec(0)},
		{AmountSubmitted: dec(30), AmountReimbursed: dec(30)},
		{AmountSubmitted: dec(20), AmountReimbursed: dec(0)},
	}
	total := DeniedFSASavings(facts)
	if !total.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected denied savings of 70, got %v", total)
	}
}

func TestComputeDeterministicSavingsCombinesIssuesAndFSA(t *testing.T) {
	cpt := "99213"
	facts := types.NewFactMap()
	facts.MedicalLineItems = []types.MedicalLineItem{
		{DateOfService: "2026-01-05", CPTCode: &cpt, PatientResponsibility: dec(25)},
		{DateOfService: "2026-01-05", CPTCode: &cpt, PatientResponsibility: dec(25)},
	}
	facts.FSAClaimItems = []types.FSAClaimItem{
		{AmountSubmitted: dec(50), AmountReimbursed: dec(0)},
	}
	issues := DeterministicIssues(facts)
	total := ComputeDeterministicSavings(facts, issues)
	if !total.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("expected combined deterministic savings of 75, got %v", total)
	}
}
