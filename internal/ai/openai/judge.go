package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/thomas-vilte/docdrift/internal/ai"
	"github.com/thomas-vilte/docdrift/internal/config"
	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/models"
)

const (
	providerName       = "openai"
	defaultTemperature = 0.1
)

var _ ai.DriftJudge = (*OpenAIJudge)(nil)

// ChatClient is the subset of *goopenai.Client the judge uses.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// OpenAIJudge asks an OpenAI chat model for a strict json_schema response.
type OpenAIJudge struct {
	client ChatClient
	model  string
}

// NewOpenAIJudge builds a judge from the loaded configuration.
func NewOpenAIJudge(cfg *config.Config) (*OpenAIJudge, error) {
	if cfg.AIAPIKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing.WithContext("provider", providerName)
	}
	return NewOpenAIJudgeWithClient(goopenai.NewClient(cfg.AIAPIKey), string(cfg.AIModel)), nil
}

// NewOpenAIJudgeWithClient allows injecting a client, such as one pointed at
// a test server through goopenai.DefaultConfig and BaseURL.
func NewOpenAIJudgeWithClient(client ChatClient, model string) *OpenAIJudge {
	if model == "" {
		model = string(config.DefaultModelForAI(config.AIOpenAI))
	}
	return &OpenAIJudge{client: client, model: model}
}

func (j *OpenAIJudge) GetModelName() string {
	return j.model
}

func (j *OpenAIJudge) GetProviderName() string {
	return providerName
}

func (j *OpenAIJudge) Judge(ctx context.Context, req models.JudgmentRequest) (models.Report, *models.TokenUsage, error) {
	log := logger.FromContext(ctx)

	system, user, err := ai.BuildPrompts(req)
	if err != nil {
		return models.Report{}, nil, domainErrors.ErrJudgment.WithError(err)
	}

	log.Debug("calling openai for drift judgment",
		"model", j.model,
		"prompt_length", len(system)+len(user))

	start := time.Now()
	resp, err := j.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: j.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		Temperature: defaultTemperature,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &goopenai.ChatCompletionResponseFormatJSONSchema{
				Name:   ai.SchemaName,
				Schema: ai.ReportSchemaJSON(req.Limits.MaxFindings),
				Strict: true,
			},
		},
	})
	if err != nil {
		log.Error("openai API call failed",
			"error", err,
			"model", j.model)
		return models.Report{}, nil, classifyError(err)
	}

	usage := &models.TokenUsage{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		TotalTokens:  resp.Usage.TotalTokens,
		Model:        j.model,
		Provider:     providerName,
		DurationMs:   time.Since(start).Milliseconds(),
	}

	if len(resp.Choices) == 0 {
		return models.Report{}, usage, domainErrors.ErrInvalidAIOutput.
			WithContext("reason", "no choices returned").
			WithContext("detail", "no choices returned")
	}

	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return models.Report{}, usage, domainErrors.ErrInvalidAIOutput.
			WithContext("reason", "model refused").
			WithContext("detail", msg.Refusal)
	}

	log.Debug("received response from openai",
		"finish_reason", resp.Choices[0].FinishReason,
		"length", len(msg.Content))

	report, err := ai.ParseReport(msg.Content, req.Limits.MaxFindings)
	if err != nil {
		return models.Report{}, usage, err
	}

	return report, usage, nil
}

func classifyError(err error) error {
	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domainErrors.ErrAIKeyInvalid.WithError(err)
	case http.StatusTooManyRequests:
		return domainErrors.ErrQuotaExceeded.WithError(err)
	default:
		return domainErrors.ErrJudgment.WithError(err)
	}
}
