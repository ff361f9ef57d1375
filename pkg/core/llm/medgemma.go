package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/prompt"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/utils"
)

// MedGemmaHostedProvider talks to a self-hosted MedGemma inference
// endpoint over a plain chat-completion-style HTTP JSON API, the same
// raw-request/response shape as every other backend without an official
// Go SDK. Endpoint and key default from env vars but can be overridden
// per instance for tests or multi-deployment setups.
type MedGemmaHostedProvider struct {
	Endpoint string // falls back to MEDGEMMA_ENDPOINT
	APIKey   string // falls back to MEDGEMMA_API_KEY
	Model    string // defaults to "medgemma-27b-text-it"
	client   *http.Client
}

var (
	_ Provider          = (*MedGemmaHostedProvider)(nil)
	_ TextAnalyzer      = (*MedGemmaHostedProvider)(nil)
	_ FactAwareAnalyzer = (*MedGemmaHostedProvider)(nil)
)

type medgemmaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type medgemmaRequest struct {
	Model       string             `json:"model"`
	Messages    []medgemmaMessage  `json:"messages"`
	Temperature float64            `json:"temperature"`
	Stream      bool               `json:"stream"`
}

type medgemmaResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *MedGemmaHostedProvider) Name() string {
	return "medgemma"
}

func (p *MedGemmaHostedProvider) endpoint() string {
	if p.Endpoint != "" {
		return p.Endpoint
	}
	return os.Getenv("MEDGEMMA_ENDPOINT")
}

func (p *MedGemmaHostedProvider) apiKey() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	return os.Getenv("MEDGEMMA_API_KEY")
}

func (p *MedGemmaHostedProvider) model() string {
	if p.Model != "" {
		return p.Model
	}
	return "medgemma-27b-text-it"
}

func (p *MedGemmaHostedProvider) httpClient() *http.Client {
	if p.client == nil {
		p.client = &http.Client{Timeout: 60 * time.Second}
	}
	return p.client
}

// HealthCheck confirms an endpoint is configured; it does not perform a
// network round trip, consistent with the registry expecting a fast,
// synchronous check at process start.
func (p *MedGemmaHostedProvider) HealthCheck(ctx context.Context) bool {
	return p.endpoint() != ""
}

func (p *MedGemmaHostedProvider) RunPrompt(ctx context.Context, userPrompt string) (string, error) {
	return withRetry(ctx, func() (string, error) {
		return p.chat(ctx, userPrompt)
	})
}

func (p *MedGemmaHostedProvider) chat(ctx context.Context, userPrompt string) (string, error) {
	endpoint := p.endpoint()
	if endpoint == "" {
		return "", fmt.Errorf("MEDGEMMA_ENDPOINT environment variable not set")
	}

	body, err := json.Marshal(medgemmaRequest{
		Model:       p.model(),
		Messages:    []medgemmaMessage{{Role: "user", Content: userPrompt}},
		Temperature: 0.1,
	})
	if err != nil {
		return "", fmt.Errorf("medgemma request marshal failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("medgemma request build failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if key := p.apiKey(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("medgemma call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("medgemma response read failed: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: medgemma returned 429: %s", ErrRateLimited, string(respBody))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("medgemma returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed medgemmaResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("medgemma response decode failed: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("medgemma returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func (p *MedGemmaHostedProvider) AnalyzeText(ctx context.Context, text string) (types.AnalysisResult, error) {
	return p.analyze(ctx, text, nil)
}

func (p *MedGemmaHostedProvider) AnalyzeWithFacts(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error) {
	return p.analyze(ctx, text, facts)
}

func (p *MedGemmaHostedProvider) analyze(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error) {
	req := prompt.BuildAnalysisPrompt(text, facts)
	raw, err := withRetry(ctx, func() (string, error) {
		return p.chat(ctx, req)
	})
	if err != nil {
		return types.AnalysisResult{}, err
	}
	issues, err := utils.ParseIssueArray(raw)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("medgemma response parse failed: %w", err)
	}
	return utils.BuildAnalysisResult(p.Name(), issues), nil
}
