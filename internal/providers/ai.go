package providers

import (
	"context"

	"github.com/thomas-vilte/docdrift/internal/ai"
	"github.com/thomas-vilte/docdrift/internal/ai/gemini"
	"github.com/thomas-vilte/docdrift/internal/ai/openai"
	"github.com/thomas-vilte/docdrift/internal/config"
	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
)

// NewDriftJudge creates a DriftJudge based on the configured provider
func NewDriftJudge(ctx context.Context, cfg *config.Config) (ai.DriftJudge, error) {
	switch cfg.AIProvider {
	case config.AIOpenAI:
		judge, err := openai.NewOpenAIJudge(cfg)
		if err != nil {
			return nil, err
		}
		return judge, nil
	case config.AIGemini:
		judge, err := gemini.NewGeminiJudge(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return judge, nil
	default:
		return nil, domainErrors.ErrUnsupportedProvider.
			WithContext("provider", string(cfg.AIProvider)).
			WithContext("detail", string(cfg.AIProvider))
	}
}
