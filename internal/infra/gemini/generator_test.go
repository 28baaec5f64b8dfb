package gemini

import (
	"context"
	"errors"
	"testing"

	"feedback-quiz-service/internal/domain"
	"google.golang.org/genai"
)

type fakeModels struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	config *genai.GenerateContentConfig
	calls  int
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = cfg
	return f.resp, f.err
}

func textResponse(text string, reason genai.FinishReason) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      genai.NewContentFromText(text, genai.RoleModel),
			FinishReason: reason,
		}},
	}
}

func TestCompleteSendsSafetySettings(t *testing.T) {
	models := &fakeModels{resp: textResponse("Great answers.", genai.FinishReasonStop)}
	gen := NewGenerator(models, "gemini-2.0-flash", 0)

	text, err := gen.Complete(context.Background(), "prompt", domain.FeedbackSafety)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Great answers." {
		t.Fatalf("unexpected text %q", text)
	}
	if models.model != "gemini-2.0-flash" || models.calls != 1 {
		t.Fatalf("unexpected call model=%s calls=%d", models.model, models.calls)
	}

	want := map[genai.HarmCategory]genai.HarmBlockThreshold{
		genai.HarmCategoryHateSpeech:       genai.HarmBlockThresholdBlockOnlyHigh,
		genai.HarmCategoryDangerousContent: genai.HarmBlockThresholdBlockNone,
		genai.HarmCategoryHarassment:       genai.HarmBlockThresholdBlockMediumAndAbove,
		genai.HarmCategorySexuallyExplicit: genai.HarmBlockThresholdBlockLowAndAbove,
	}
	if len(models.config.SafetySettings) != len(want) {
		t.Fatalf("expected %d settings, got %d", len(want), len(models.config.SafetySettings))
	}
	for _, s := range models.config.SafetySettings {
		if want[s.Category] != s.Threshold {
			t.Fatalf("category %s: want %s got %s", s.Category, want[s.Category], s.Threshold)
		}
	}
}

func TestCompleteReportsBlockedContent(t *testing.T) {
	cases := map[string]*genai.GenerateContentResponse{
		"prompt":    {PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety}},
		"candidate": textResponse("", genai.FinishReasonSafety),
	}
	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			gen := NewGenerator(&fakeModels{resp: resp}, "m", 0)
			_, err := gen.Complete(context.Background(), "prompt", domain.FeedbackSafety)
			if !errors.Is(err, domain.ErrContentBlocked) {
				t.Fatalf("expected ErrContentBlocked, got %v", err)
			}
		})
	}
}

func TestCompletePassesUpstreamError(t *testing.T) {
	upstream := errors.New("quota exceeded")
	gen := NewGenerator(&fakeModels{err: upstream}, "m", 0)
	_, err := gen.Complete(context.Background(), "prompt", domain.FeedbackSafety)
	if !errors.Is(err, upstream) || errors.Is(err, domain.ErrContentBlocked) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestCompleteRejectsEmptyCandidates(t *testing.T) {
	gen := NewGenerator(&fakeModels{resp: &genai.GenerateContentResponse{}}, "m", 0)
	if _, err := gen.Complete(context.Background(), "prompt", domain.FeedbackSafety); err == nil {
		t.Fatalf("expected error for empty candidates")
	}
}
