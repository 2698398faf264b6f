package gemini

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/thomas-vilte/docdrift/internal/ai"
	"github.com/thomas-vilte/docdrift/internal/config"
	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/models"
)

const providerName = "gemini"

var _ ai.DriftJudge = (*GeminiJudge)(nil)

// ContentGenerator is the subset of genai.Models the judge uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiJudge asks a Gemini model for a JSON response constrained by the
// drift report schema.
type GeminiJudge struct {
	models ContentGenerator
	model  string
}

func NewGeminiJudge(ctx context.Context, cfg *config.Config) (*GeminiJudge, error) {
	if cfg.AIAPIKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing.WithContext("provider", providerName)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.AIAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		if isAuthError(err) {
			return nil, domainErrors.ErrAIKeyInvalid.WithError(err)
		}
		return nil, domainErrors.NewAppError(domainErrors.TypeAI, "error creating AI client", err)
	}
	return NewGeminiJudgeWithGenerator(client.Models, string(cfg.AIModel)), nil
}

func NewGeminiJudgeWithGenerator(gen ContentGenerator, model string) *GeminiJudge {
	if model == "" {
		model = string(config.DefaultModelForAI(config.AIGemini))
	}
	return &GeminiJudge{models: gen, model: model}
}

func (g *GeminiJudge) GetModelName() string {
	return g.model
}

func (g *GeminiJudge) GetProviderName() string {
	return providerName
}

func (g *GeminiJudge) Judge(ctx context.Context, req models.JudgmentRequest) (models.Report, *models.TokenUsage, error) {
	log := logger.FromContext(ctx)

	system, user, err := ai.BuildPrompts(req)
	if err != nil {
		return models.Report{}, nil, domainErrors.ErrJudgment.WithError(err)
	}

	genConfig := GetGenerateConfig(req.Limits.MaxFindings)
	genConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)

	log.Debug("calling gemini for drift judgment",
		"model", g.model,
		"prompt_length", len(system)+len(user))

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(user), genConfig)
	if err != nil {
		log.Error("gemini API call failed",
			"error", err,
			"model", g.model)
		return models.Report{}, nil, classifyError(err)
	}

	usage := extractUsage(resp)
	if usage != nil {
		usage.Model = g.model
		usage.Provider = providerName
		usage.DurationMs = time.Since(start).Milliseconds()
	}

	text := formatResponse(resp)
	if text == "" {
		return models.Report{}, usage, domainErrors.ErrInvalidAIOutput.
			WithContext("reason", "empty response from AI").
			WithContext("detail", "empty response from AI")
	}

	report, err := ai.ParseReport(text, req.Limits.MaxFindings)
	if err != nil {
		return models.Report{}, usage, err
	}
	return report, usage, nil
}

// GetGenerateConfig requests JSON output constrained by the report schema.
func GetGenerateConfig(maxFindings int) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:        float32Ptr(0.1),
		MaxOutputTokens:    int32(8192),
		ResponseMIMEType:   "application/json",
		ResponseJsonSchema: ai.ReportSchema(maxFindings),
	}
}

// extractUsage extracts usage metadata from the Gemini response
func extractUsage(resp *genai.GenerateContentResponse) *models.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &models.TokenUsage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
	}
}

// formatResponse concatenates the text parts of the first candidate, skipping thoughts.
func formatResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func classifyError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "resource_exhausted"):
		return domainErrors.ErrQuotaExceeded.WithError(err)
	case isAuthError(err):
		return domainErrors.ErrAIKeyInvalid.WithError(err)
	default:
		return domainErrors.ErrJudgment.WithError(err)
	}
}

func isAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission denied")
}

func float32Ptr(f float32) *float32 {
	return &f
}
