// Package rules implements the Deterministic Rule Engine: pure
// functions over a fact map that never consult a network service and
// never fail.
package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// DeterministicIssues runs every rule against facts and returns the
// combined, deterministically ordered issue list: duplicate medical CPT
// charges first, then duplicate dental CDT charges.
func DeterministicIssues(facts *types.FactMap) []types.Issue {
	if facts == nil {
		return nil
	}
	var issues []types.Issue
	issues = append(issues, duplicateMedicalCPT(facts)...)
	issues = append(issues, duplicateDentalCDT(facts)...)
	return issues
}

type medicalKey struct {
	date string
	code string
}

func duplicateMedicalCPT(facts *types.FactMap) []types.Issue {
	seen := map[medicalKey]int{}
	order := []medicalKey{}
	for _, item := range facts.MedicalLineItems {
		if item.CPTCode == nil {
			continue
		}
		key := medicalKey{date: item.DateOfService, code: *item.CPTCode}
		if seen[key] == 0 {
			order = append(order, key)
		}
		seen[key]++
	}

	var issues []types.Issue
	for _, key := range order {
		if seen[key] <= 1 {
			continue
		}
		// max_savings is the patient_responsibility of the second-or-later
		// occurrence; find it by re-scanning in original order.
		occurrence := 0
		for _, item := range facts.MedicalLineItems {
			if item.CPTCode == nil || item.DateOfService != key.date || *item.CPTCode != key.code {
				continue
			}
			occurrence++
			if occurrence < 2 {
				continue
			}
			code := key.code
			date := key.date
			issues = append(issues, types.Issue{
				Type:       types.IssueDuplicateCharge,
				Summary:    fmt.Sprintf("CPT %s billed more than once on %s", key.code, key.date),
				Evidence:   fmt.Sprintf("CPT code %s recurs on date of service %s", key.code, key.date),
				Code:       &code,
				Date:       &date,
				MaxSavings: item.PatientResponsibility,
				Source:     types.SourceDeterministic,
				Confidence: 1.0,
			})
		}
	}
	return issues
}

type dentalKey struct {
	date string
	code string
}

func duplicateDentalCDT(facts *types.FactMap) []types.Issue {
	seen := map[dentalKey]int{}
	order := []dentalKey{}
	for _, item := range facts.DentalLineItems {
		if item.CDTCode == nil {
			continue
		}
		key := dentalKey{date: item.DateOfService, code: *item.CDTCode}
		if seen[key] == 0 {
			order = append(order, key)
		}
		seen[key]++
	}

	var issues []types.Issue
	for _, key := range order {
		if seen[key] <= 1 {
			continue
		}
		occurrence := 0
		for _, item := range facts.DentalLineItems {
			if item.CDTCode == nil || item.DateOfService != key.date || *item.CDTCode != key.code {
				continue
			}
			occurrence++
			if occurrence < 2 {
				continue
			}
			code := key.code
			date := key.date
			issues = append(issues, types.Issue{
				Type:       types.IssueDuplicateCharge,
				Summary:    fmt.Sprintf("CDT %s billed more than once on %s", key.code, key.date),
				Evidence:   fmt.Sprintf("CDT code %s recurs on date of service %s", key.code, key.date),
				Code:       &code,
				Date:       &date,
				MaxSavings: item.PatientResponsibility,
				Source:     types.SourceDeterministic,
				Confidence: 1.0,
			})
		}
	}
	return issues
}

// DeniedFSASavings sums amount_submitted across every fsa_claim_items
// entry whose amount_reimbursed is exactly zero. This contributes to
// deterministic_savings but is never surfaced as its own Issue, per the
// rule engine's savings-only third rule.
func DeniedFSASavings(facts *types.FactMap) decimal.Decimal {
	total := decimal.Zero
	if facts == nil {
		return total
	}
	for _, item := range facts.FSAClaimItems {
		if item.AmountReimbursed == nil || item.AmountSubmitted == nil {
			continue
		}
		if item.AmountReimbursed.IsZero() {
			total = total.Add(*item.AmountSubmitted)
		}
	}
	return total
}

// ComputeDeterministicSavings sums max_savings across the deterministic
// issue list plus DeniedFSASavings, the full deterministic_savings
// figure the orchestrator compares against llm_max_savings.
func ComputeDeterministicSavings(facts *types.FactMap, deterministicIssues []types.Issue) decimal.Decimal {
	total := DeniedFSASavings(facts)
	for _, issue := range deterministicIssues {
		if issue.MaxSavings != nil {
			total = total.Add(*issue.MaxSavings)
		}
	}
	return total
}
