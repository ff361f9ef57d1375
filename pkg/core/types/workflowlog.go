package types

import (
	"encoding/json"
	"time"
)

// ProgressPhase names the five checkpoints the orchestrator invokes its
// progress callback at.
type ProgressPhase string

const (
	PhasePreExtractionActive ProgressPhase = "pre_extraction_active"
	PhaseExtractionActive    ProgressPhase = "extraction_active"
	PhaseLineItemsActive     ProgressPhase = "line_items_active"
	PhaseAnalysisActive      ProgressPhase = "analysis_active"
	PhaseComplete            ProgressPhase = "complete"
)

// WorkflowLog is the immutable, per-run record of every decision the
// orchestrator made. The orchestrator fills in its maps as the run
// proceeds and returns it with the result; downstream consumers treat it
// as opaque.
type WorkflowLog struct {
	WorkflowID    string
	Timestamp     time.Time
	PreExtraction map[string]any
	Extraction    map[string]any
	Analysis      map[string]any

	Cancelled    bool
	Failed       bool
	ErrorKind    string
	ErrorMessage string
}

// MarshalJSON guarantees the exact top-level key set on every
// successful run: workflow_id, timestamp, pre_extraction, extraction,
// analysis, with cancelled/status/error added only when applicable.
// Keys are written in sorted order, as encoding/json does for maps.
func (w WorkflowLog) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"workflow_id":    w.WorkflowID,
		"timestamp":      w.Timestamp.UTC().Format(time.RFC3339),
		"pre_extraction": w.PreExtraction,
		"extraction":     w.Extraction,
		"analysis":       w.Analysis,
	}
	if w.Cancelled {
		out["cancelled"] = true
	}
	if w.Failed {
		out["status"] = "failed"
		out["error"] = map[string]string{"kind": w.ErrorKind, "message": w.ErrorMessage}
	}
	return json.Marshal(out)
}
