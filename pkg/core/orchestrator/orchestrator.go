// Package orchestrator implements the single public pipeline entry
// point: classify, extract, normalize, optionally pull line items,
// analyze, merge in deterministic findings, and seal a workflow log.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/classify"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/extract"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/llm"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/normalize"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/phase2"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/rules"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

// defaultExtractors maps a classifier-assigned document type to the
// provider name used for phase-1 and phase-2 extraction when the caller
// did not supply an override, per the frozen default extractor map.
var defaultExtractors = map[types.DocumentType]string{
	types.DocMedicalBill:     "gpt-4o-mini",
	types.DocInsuranceEOB:    "gpt-4o-mini",
	types.DocPharmacyReceipt: "gemini-1.5-flash",
	types.DocDentalBill:      "gpt-4o-mini",
	types.DocGeneric:         "gpt-4o-mini",
}

const defaultExtractorFallback = "gpt-4o-mini"

// FallbackUsed records which analyzer name was actually resolved when it
// differs from the one requested.
type FallbackUsed struct {
	Requested string `json:"requested"`
	Used      string `json:"used"`
}

// Summary is the orchestration_summary element of the run tuple: the
// high-level decisions made during a single run, independent of the
// full workflow log's verbose per-phase detail.
type Summary struct {
	ExtractorUsed   string
	ExtractorReason string
	AnalyzerUsed    string
	AnalyzerMode    string // "facts+text" or "text_only"
	FallbackUsed    *FallbackUsed
	Cancelled       bool
	Failed          bool
	ErrorKind       Kind
}

// Result is the full output tuple of a single run.
type Result struct {
	Facts       *types.FactMap
	Analysis    types.AnalysisResult
	Summary     Summary
	WorkflowLog types.WorkflowLog
}

// Options configures a single run: overrides for extractor/analyzer
// selection, an optional profile-context prologue prepended to the text
// before extraction, and a progress callback.
type Options struct {
	ExtractorOverride string
	AnalyzerOverride  string
	ProfileContext    string
	ProgressCallback  func(phase types.ProgressPhase, log types.WorkflowLog)
}

// Run executes the full pipeline against rawText using registry to
// resolve provider names. It never panics; every failure mode produces
// a Result with Summary.Failed or Summary.Cancelled set and a sealed
// workflow log.
func Run(ctx context.Context, registry *llm.Registry, rawText string, opts Options) Result {
	log := types.WorkflowLog{
		WorkflowID:    uuid.NewString(),
		Timestamp:     nowOrZero(),
		PreExtraction: map[string]any{},
		Extraction:    map[string]any{},
		Analysis:      map[string]any{},
	}

	notify := func(phase types.ProgressPhase) {
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(phase, log)
		}
	}

	if cancelled(ctx) {
		notify(types.PhasePreExtractionActive)
		return cancelledResult(log)
	}

	notify(types.PhasePreExtractionActive)

	classification := classify.Classify(rawText)
	prefacts := classify.Scan(rawText)
	log.PreExtraction["classification"] = map[string]any{
		"document_type": classification.DocumentType,
		"confidence":    classification.Confidence,
		"scores":        classification.Scores,
	}
	log.PreExtraction["pre_facts"] = prefacts

	extractorName, extractorReason := selectExtractor(classification.DocumentType, opts.ExtractorOverride)
	log.PreExtraction["extractor_selected"] = extractorName
	log.PreExtraction["extractor_reason"] = extractorReason

	if cancelled(ctx) {
		return cancelledResult(log)
	}

	notify(types.PhaseExtractionActive)

	extractionText := rawText
	if opts.ProfileContext != "" {
		extractionText = opts.ProfileContext + "\n\n" + rawText
	}

	facts, extractionErr := runExtraction(ctx, registry, extractorName, extractionText)
	log.Extraction["extractor"] = extractorName
	if extractionErr != nil {
		log.Extraction["facts_extraction_error"] = extractionErr.Error()
	}
	normalized := normalize.Facts(facts)
	log.Extraction["facts"] = normalized
	log.Extraction["fact_count"] = populatedFactCount(normalized)

	if cancelled(ctx) {
		return cancelledResult(log)
	}

	notify(types.PhaseLineItemsActive)

	if provider, ok := registry.Get(extractorName); ok {
		count, err := phase2.Run(ctx, provider, extractionText, normalized)
		if err != nil {
			log.Extraction["line_items_extraction_error"] = err.Error()
		} else {
			log.Extraction[itemCountKey(normalized.DocumentType)] = count
		}
	}

	if cancelled(ctx) {
		return cancelledResult(log)
	}

	notify(types.PhaseAnalysisActive)

	analyzerName, fallbackUsed, selectErr := selectAnalyzer(registry, opts.AnalyzerOverride)
	if selectErr != nil {
		log.Failed = true
		log.ErrorKind = string(KindAnalyzerUnavailable)
		log.ErrorMessage = selectErr.Error()
		notify(types.PhaseComplete)
		return Result{
			Facts:       normalized,
			Analysis:    types.NewAnalysisResult(),
			Summary:     Summary{ExtractorUsed: extractorName, ExtractorReason: extractorReason, Failed: true, ErrorKind: KindAnalyzerUnavailable},
			WorkflowLog: log,
		}
	}
	log.Analysis["analyzer"] = analyzerName
	if fallbackUsed != nil {
		log.Analysis["fallback_used"] = fallbackUsed
	}

	provider, _ := registry.Get(analyzerName)
	analysisResult, mode, analyzeErr := runAnalysis(ctx, provider, extractionText, normalized)
	log.Analysis["mode"] = mode
	if analyzeErr != nil {
		kind := KindAnalyzerFailed
		if pe, ok := analyzeErr.(*PipelineError); ok {
			kind = pe.Kind
		}
		log.Failed = true
		log.ErrorKind = string(kind)
		log.ErrorMessage = analyzeErr.Error()
		notify(types.PhaseComplete)
		return Result{
			Facts:       normalized,
			Analysis:    types.NewAnalysisResult(),
			Summary: Summary{
				ExtractorUsed:   extractorName,
				ExtractorReason: extractorReason,
				AnalyzerUsed:    analyzerName,
				AnalyzerMode:    mode,
				FallbackUsed:    fallbackUsed,
				Failed:          true,
				ErrorKind:       kind,
			},
			WorkflowLog: log,
		}
	}

	deterministicIssues := rules.DeterministicIssues(normalized)
	combined := make([]types.Issue, 0, len(analysisResult.Issues)+len(deterministicIssues))
	combined = append(combined, analysisResult.Issues...)
	combined = append(combined, deterministicIssues...)
	combined = clampSavings(combined)

	deterministicSavings := rules.ComputeDeterministicSavings(normalized, deterministicIssues)
	llmSavings := sumNonDeterministicSavings(combined)
	totalSavings := decimal.Max(llmSavings, deterministicSavings)

	finalResult := types.AnalysisResult{
		Issues: combined,
		Meta: map[string]any{
			"provider":              analyzerName,
			"issue_count":           len(combined),
			"llm_max_savings":       llmSavings,
			"deterministic_savings": deterministicSavings,
			"total_max_savings":     totalSavings,
		},
	}
	log.Analysis["result"] = finalResult

	notify(types.PhaseComplete)

	return Result{
		Facts:    normalized,
		Analysis: finalResult,
		Summary: Summary{
			ExtractorUsed:   extractorName,
			ExtractorReason: extractorReason,
			AnalyzerUsed:    analyzerName,
			AnalyzerMode:    mode,
			FallbackUsed:    fallbackUsed,
		},
		WorkflowLog: log,
	}
}

func selectExtractor(docType types.DocumentType, override string) (name, reason string) {
	if override != "" {
		return override, "override"
	}
	if name, ok := defaultExtractors[docType]; ok {
		return name, "regex classification"
	}
	return defaultExtractorFallback, "regex classification"
}

func runExtraction(ctx context.Context, registry *llm.Registry, extractorName, text string) (*types.FactMap, error) {
	provider, ok := registry.Get(extractorName)
	if !ok {
		return extract.HeuristicExtractor{}.Extract(text)
	}
	facts, err := extract.RemoteExtractor{Provider: provider}.Extract(ctx, text)
	if err != nil {
		fallback, _ := extract.HeuristicExtractor{}.Extract(text)
		return fallback, newPipelineError(KindExtractionFailed, "remote extraction failed", err)
	}
	return facts, nil
}

func selectAnalyzer(registry *llm.Registry, override string) (name string, fallback *FallbackUsed, err error) {
	requested := override
	if requested == "" {
		requested = defaultExtractorFallback
	}
	provider, used, resolveErr := registry.Resolve(requested)
	if resolveErr != nil {
		return "", nil, newPipelineError(KindAnalyzerUnavailable, "no analyzer or fallback registered", resolveErr)
	}
	if used != requested {
		return provider.Name(), &FallbackUsed{Requested: requested, Used: used}, nil
	}
	return provider.Name(), nil, nil
}

// runAnalysis prefers fact-aware analysis and falls back to text-only,
// either because the provider lacks the capability or because the
// fact-aware call itself failed.
func runAnalysis(ctx context.Context, provider llm.Provider, text string, facts *types.FactMap) (types.AnalysisResult, string, error) {
	if factAware, ok := provider.(llm.FactAwareAnalyzer); ok {
		result, err := factAware.AnalyzeWithFacts(ctx, text, facts)
		if err == nil {
			return result, "facts+text", nil
		}
		if textOnly, ok := provider.(llm.TextAnalyzer); ok {
			retryResult, retryErr := textOnly.AnalyzeText(ctx, text)
			if retryErr == nil {
				return retryResult, "text_only", nil
			}
			return types.AnalysisResult{}, "text_only", newPipelineError(KindAnalyzerFailed, "analyzer failed after facts retry", retryErr)
		}
		return types.AnalysisResult{}, "facts+text", newPipelineError(KindAnalyzerFailed, "analyzer failed", err)
	}
	if textOnly, ok := provider.(llm.TextAnalyzer); ok {
		result, err := textOnly.AnalyzeText(ctx, text)
		if err != nil {
			return types.AnalysisResult{}, "text_only", newPipelineError(KindAnalyzerFailed, "analyzer failed", err)
		}
		return result, "text_only", nil
	}
	return types.AnalysisResult{}, "text_only", newPipelineError(KindAnalyzerUnavailable, "provider supports neither analysis capability", nil)
}

func clampSavings(issues []types.Issue) []types.Issue {
	for i := range issues {
		if issues[i].MaxSavings != nil && issues[i].MaxSavings.IsNegative() {
			issues[i].MaxSavings = nil
		}
	}
	return issues
}

func sumNonDeterministicSavings(issues []types.Issue) decimal.Decimal {
	total := decimal.Zero
	for _, issue := range issues {
		if issue.Source == types.SourceDeterministic {
			continue
		}
		if issue.MaxSavings != nil {
			total = total.Add(*issue.MaxSavings)
		}
	}
	return total
}

func populatedFactCount(f *types.FactMap) int {
	count := 0
	for _, v := range []*string{
		f.PatientName, f.DateOfBirth, f.DateOfService, f.TimeOfService,
		f.DateRangeStart, f.DateRangeEnd, f.ProviderName, f.FacilityName,
		f.Address, f.PhoneNumber, f.ProcedureCode, f.ReceiptNumber, f.StoreID,
	} {
		if v != nil {
			count++
		}
	}
	return count
}

func itemCountKey(docType types.DocumentType) string {
	switch docType {
	case types.DocMedicalBill:
		return "medical_line_item_count"
	case types.DocDentalBill:
		return "dental_line_item_count"
	case types.DocPharmacyReceipt:
		return "receipt_item_count"
	case types.DocInsuranceEOB, types.DocInsuranceClaimHistory, types.DocInsuranceDocument:
		return "insurance_claim_item_count"
	case types.DocFSAClaimHistory:
		return "fsa_claim_item_count"
	default:
		return "line_item_count"
	}
}

func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

func cancelledResult(log types.WorkflowLog) Result {
	log.Cancelled = true
	return Result{
		Facts:       types.NewFactMap(),
		Analysis:    types.NewAnalysisResult(),
		Summary:     Summary{Cancelled: true},
		WorkflowLog: log,
	}
}

// nowOrZero exists so a future deterministic-clock injection point is a
// one-line change; orchestrator callers never need wall-clock time
// themselves.
func nowOrZero() time.Time {
	return time.Now()
}
