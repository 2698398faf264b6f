package ai

import (
	"context"

	"github.com/thomas-vilte/docdrift/internal/models"
)

// DriftJudge is the external judgment service. Given the evidence bundle it
// returns one report conforming to the drift report schema, or an error.
type DriftJudge interface {
	// Judge asks the model for a structured drift judgment.
	Judge(ctx context.Context, req models.JudgmentRequest) (models.Report, *models.TokenUsage, error)

	// GetModelName returns the name of the current model (e.g.: "gpt-4o-mini")
	GetModelName() string

	// GetProviderName returns the name of the provider (e.g.: "openai", "gemini")
	GetProviderName() string
}
