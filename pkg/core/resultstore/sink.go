package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/benchmark"
)

// RunMetadata carries the provenance fields the benchmark CLI attaches
// to every pushed run: which CI environment produced it, which commit
// and branch, and who (or what) triggered it.
type RunMetadata struct {
	Model         string
	Environment   string
	CommitSHA     string
	BranchName    string
	TriggeredBy   string
	Subset        string
}

// RunRecord is the full payload a benchmark run hands to a ResultSink.
type RunRecord struct {
	Meta       RunMetadata
	Metrics    benchmark.SuiteMetrics
	Categories map[string]benchmark.AggregatedCategory
	Parents    map[string]benchmark.ParentCategory
	Results    []benchmark.PatientResult
}

// ResultSink is the persistence boundary a benchmark run crosses when
// pushing results somewhere durable. The CLI's default sink is a no-op;
// --push-to-supabase swaps in SupabaseSink.
type ResultSink interface {
	Push(ctx context.Context, run RunRecord) error
}

// NoopSink discards every run; it is the default when --push-to-supabase
// is not requested.
type NoopSink struct{}

func (NoopSink) Push(ctx context.Context, run RunRecord) error { return nil }

// SupabaseSink upserts a run record into the benchmark_runs table, one
// row per (model, environment, commit_sha) triple.
type SupabaseSink struct{}

// NewSupabaseSink returns a sink backed by the pool InitDB initialized.
func NewSupabaseSink() *SupabaseSink { return &SupabaseSink{} }

// Push serializes the run's metrics and per-patient results into a
// JSONB column and upserts it.
//
// Schema assumption:
//
//	CREATE TABLE IF NOT EXISTS benchmark_runs (
//	  model TEXT NOT NULL,
//	  environment TEXT NOT NULL,
//	  commit_sha TEXT NOT NULL,
//	  branch_name TEXT,
//	  triggered_by TEXT,
//	  subset TEXT,
//	  run_json JSONB,
//	  updated_at TIMESTAMPTZ,
//	  PRIMARY KEY (model, environment, commit_sha)
//	);
func (s *SupabaseSink) Push(ctx context.Context, run RunRecord) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	payload := struct {
		Metrics    benchmark.SuiteMetrics                   `json:"metrics"`
		Categories map[string]benchmark.AggregatedCategory  `json:"categories"`
		Parents    map[string]benchmark.ParentCategory      `json:"parent_categories"`
		Results    []benchmark.PatientResult                `json:"patient_results"`
	}{Metrics: run.Metrics, Categories: run.Categories, Parents: run.Parents, Results: run.Results}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	query := `
		INSERT INTO benchmark_runs (model, environment, commit_sha, branch_name, triggered_by, subset, run_json, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (model, environment, commit_sha)
		DO UPDATE SET
			branch_name = EXCLUDED.branch_name,
			triggered_by = EXCLUDED.triggered_by,
			subset = EXCLUDED.subset,
			run_json = EXCLUDED.run_json,
			updated_at = EXCLUDED.updated_at;
	`

	_, err = pool.Exec(ctx, query, run.Meta.Model, run.Meta.Environment, run.Meta.CommitSHA, run.Meta.BranchName, run.Meta.TriggeredBy, run.Meta.Subset, jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to push benchmark run: %w", err)
	}
	return nil
}
