package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/prompt"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/utils"
)

// GeminiProvider implements Provider, TextAnalyzer and FactAwareAnalyzer
// for Google's Gemini models via the official GenAI SDK.
type GeminiProvider struct {
	Model  string // e.g. "gemini-1.5-flash"
	APIKey string // falls back to GEMINI_API_KEY when empty
}

var (
	_ Provider          = (*GeminiProvider)(nil)
	_ TextAnalyzer      = (*GeminiProvider)(nil)
	_ FactAwareAnalyzer = (*GeminiProvider)(nil)
)

func (p *GeminiProvider) Name() string {
	if p.Model != "" {
		return p.Model
	}
	return "gemini-1.5-flash"
}

func (p *GeminiProvider) apiKey() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	return os.Getenv("GEMINI_API_KEY")
}

func (p *GeminiProvider) HealthCheck(ctx context.Context) bool {
	return p.apiKey() != ""
}

// RunPrompt sends a generateContent request and returns the raw text,
// retrying on rate-limit-class failures per the shared backoff policy.
func (p *GeminiProvider) RunPrompt(ctx context.Context, prompt string) (string, error) {
	return withRetry(ctx, func() (string, error) {
		return p.generate(ctx, prompt, "")
	})
}

func (p *GeminiProvider) generate(ctx context.Context, userPrompt, systemPrompt string) (string, error) {
	apiKey := p.apiKey()
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.1)),
	}
	if strings.Contains(strings.ToLower(userPrompt), "json") {
		config.ResponseMIMEType = "application/json"
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}}
	}

	result, err := client.Models.GenerateContent(ctx, p.Name(), genai.Text(userPrompt), config)
	if err != nil {
		if isRateLimitErr(err) {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return result.Text(), nil
}

func isRateLimitErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") || strings.Contains(msg, "resource_exhausted")
}

// AnalyzeText implements text-only document analysis.
func (p *GeminiProvider) AnalyzeText(ctx context.Context, text string) (types.AnalysisResult, error) {
	return p.analyze(ctx, text, nil)
}

// AnalyzeWithFacts implements fact-aware document analysis.
func (p *GeminiProvider) AnalyzeWithFacts(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error) {
	return p.analyze(ctx, text, facts)
}

func (p *GeminiProvider) analyze(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error) {
	req := prompt.BuildAnalysisPrompt(text, facts)
	raw, err := withRetry(ctx, func() (string, error) {
		return p.generate(ctx, req, "")
	})
	if err != nil {
		return types.AnalysisResult{}, err
	}
	issues, err := utils.ParseIssueArray(raw)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("gemini response parse failed: %w", err)
	}
	return utils.BuildAnalysisResult(p.Name(), issues), nil
}
