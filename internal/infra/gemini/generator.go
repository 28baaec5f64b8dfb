package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedback-quiz-service/internal/config"
	"feedback-quiz-service/internal/domain"
	"google.golang.org/genai"
)

// ContentGenerator is the subset of genai's Models service the generator needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator sends feedback prompts to Gemini.
type Generator struct {
	models  ContentGenerator
	model   string
	timeout time.Duration
}

// NewClient builds a Gemini API client. An empty key falls back to GEMINI_API_KEY.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
	if apiKey != "" {
		cfg.APIKey = apiKey
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return client, nil
}

func NewGenerator(models ContentGenerator, model string, timeout time.Duration) *Generator {
	return &Generator{models: models, model: model, timeout: timeout}
}

func (g *Generator) Complete(ctx context.Context, prompt string, safety domain.SafetyConfig) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	log := config.WithContext(ctx)
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SafetySettings: safetySettings(safety),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if err := classify(resp); err != nil {
		return "", err
	}

	text := resp.Text()
	log.Debugf("gemini returned %d bytes", len(text))
	return text, nil
}

func safetySettings(cfg domain.SafetyConfig) []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{Category: genai.HarmCategoryHateSpeech, Threshold: threshold(cfg.HateSpeech)},
		{Category: genai.HarmCategoryDangerousContent, Threshold: threshold(cfg.DangerousContent)},
		{Category: genai.HarmCategoryHarassment, Threshold: threshold(cfg.Harassment)},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: threshold(cfg.SexualContent)},
	}
}

func threshold(t domain.BlockThreshold) genai.HarmBlockThreshold {
	switch t {
	case domain.BlockLowAndAbove:
		return genai.HarmBlockThresholdBlockLowAndAbove
	case domain.BlockMediumAndAbove:
		return genai.HarmBlockThresholdBlockMediumAndAbove
	case domain.BlockOnlyHigh:
		return genai.HarmBlockThresholdBlockOnlyHigh
	case domain.BlockNone:
		return genai.HarmBlockThresholdBlockNone
	default:
		return genai.HarmBlockThresholdUnspecified
	}
}

// classify reports safety refusals as domain.ErrContentBlocked.
func classify(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return errors.New("nil response")
	}
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return fmt.Errorf("%w: prompt %s", domain.ErrContentBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return errors.New("no candidates")
	}
	switch reason := resp.Candidates[0].FinishReason; reason {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent,
		genai.FinishReasonBlocklist, genai.FinishReasonSPII:
		return fmt.Errorf("%w: candidate %s", domain.ErrContentBlocked, reason)
	}
	return nil
}
