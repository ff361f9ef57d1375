package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/prompt"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/types"
	"github.com/boobootoo2/medbilldozer-sub000/pkg/core/utils"
)

// OpenAIProvider implements Provider, TextAnalyzer and FactAwareAnalyzer
// using OpenAI's Responses API, registered under the "gpt-4o-mini" name
// per the default extractor map.
type OpenAIProvider struct {
	Model  string
	APIKey string // falls back to OPENAI_API_KEY when empty

	client *openai.Client
}

var (
	_ Provider          = (*OpenAIProvider)(nil)
	_ TextAnalyzer      = (*OpenAIProvider)(nil)
	_ FactAwareAnalyzer = (*OpenAIProvider)(nil)
)

func (p *OpenAIProvider) Name() string {
	if p.Model != "" {
		return p.Model
	}
	return "gpt-4o-mini"
}

func (p *OpenAIProvider) apiKey() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}

func (p *OpenAIProvider) HealthCheck(ctx context.Context) bool {
	return p.apiKey() != ""
}

func (p *OpenAIProvider) ensureClient() *openai.Client {
	if p.client == nil {
		c := openai.NewClient(option.WithAPIKey(p.apiKey()), option.WithMaxRetries(3))
		p.client = &c
	}
	return p.client
}

// RunPrompt sends a bare prompt through the Responses API and returns
// its plain-text output, used for phase-2 direct JSON prompting.
func (p *OpenAIProvider) RunPrompt(ctx context.Context, userPrompt string) (string, error) {
	return withRetry(ctx, func() (string, error) {
		return p.respond(ctx, userPrompt)
	})
}

func (p *OpenAIProvider) respond(ctx context.Context, userPrompt string) (string, error) {
	if p.apiKey() == "" {
		return "", fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	resp, err := p.ensureClient().Responses.New(ctx, responses.ResponseNewParams{
		Model: openai.ChatModel(p.modelOrDefault()),
		Input: responses.ResponseNewParamsInputUnion{OfString: openai.String(userPrompt)},
	})
	if err != nil {
		var apierr *openai.Error
		if errors.As(err, &apierr) && apierr.StatusCode == 429 {
			return "", fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return "", fmt.Errorf("openai responses error: %w", err)
	}
	text := resp.OutputText()
	if text == "" {
		return "", fmt.Errorf("empty response content")
	}
	return text, nil
}

func (p *OpenAIProvider) modelOrDefault() string {
	if p.Model != "" && p.Model != "gpt-4o-mini" {
		return p.Model
	}
	return "gpt-4o-mini"
}

// AnalyzeText implements text-only document analysis.
func (p *OpenAIProvider) AnalyzeText(ctx context.Context, text string) (types.AnalysisResult, error) {
	return p.analyze(ctx, text, nil)
}

// AnalyzeWithFacts implements fact-aware document analysis.
func (p *OpenAIProvider) AnalyzeWithFacts(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error) {
	return p.analyze(ctx, text, facts)
}

func (p *OpenAIProvider) analyze(ctx context.Context, text string, facts *types.FactMap) (types.AnalysisResult, error) {
	req := prompt.BuildAnalysisPrompt(text, facts)
	raw, err := withRetry(ctx, func() (string, error) {
		return p.respond(ctx, req)
	})
	if err != nil {
		return types.AnalysisResult{}, err
	}
	issues, err := utils.ParseIssueArray(raw)
	if err != nil {
		return types.AnalysisResult{}, fmt.Errorf("openai response parse failed: %w", err)
	}
	return utils.BuildAnalysisResult(p.Name(), issues), nil
}
