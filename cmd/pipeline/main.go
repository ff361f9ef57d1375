// Command pipeline runs a single billing document through the full
// classify/extract/analyze orchestration and prints the resulting
// workflow log as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/llm"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/orchestrator"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, assuming environment variables are set")
	}

	inputPath := flag.String("input", "", "path to the billing document text file (reads stdin if omitted)")
	extractor := flag.String("extractor", "", "override the default extractor provider name")
	analyzer := flag.String("analyzer", "", "override the default analyzer provider name")
	profile := flag.String("profile-context", "", "optional patient profile context prepended to the document text")
	flag.Parse()

	text, err := readInput(*inputPath)
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}

	ctx := context.Background()
	registry := llm.NewDefaultRegistry(ctx)
	if len(registry.Names()) == 0 {
		log.Fatal("no providers passed their health check; set OPENAI_API_KEY/GEMINI_API_KEY/MEDGEMMA_ENDPOINT or rely on the heuristic provider")
	}

	result := orchestrator.Run(ctx, registry, text, orchestrator.Options{
		ExtractorOverride: *extractor,
		AnalyzerOverride:  *analyzer,
		ProfileContext:    *profile,
		ProgressCallback:  logProgress,
	})

	encoded, err := json.MarshalIndent(result.WorkflowLog, "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal workflow log: %v", err)
	}
	fmt.Println(string(encoded))

	if result.Summary.Failed {
		os.Exit(1)
	}
}

func logProgress(phase types.ProgressPhase, _ types.WorkflowLog) {
	log.Printf("phase: %s", phase)
}

func readInput(path string) (string, error) {
	var raw []byte
	var err error
	if path == "" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
