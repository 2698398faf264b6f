package services

import (
	"context"
	"errors"
	"time"

	"github.com/thomas-vilte/docdrift/internal/ai"
	"github.com/thomas-vilte/docdrift/internal/config"
	"github.com/thomas-vilte/docdrift/internal/dependency"
	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/evidence"
	"github.com/thomas-vilte/docdrift/internal/extract"
	"github.com/thomas-vilte/docdrift/internal/gate"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/models"
	"github.com/thomas-vilte/docdrift/internal/report"
	"github.com/thomas-vilte/docdrift/internal/vcs"
)

// CheckResult is everything a drift check produced.
type CheckResult struct {
	Files    []models.ChangedFile
	Tokens   []string
	Deps     models.DependencyChanges
	Evidence []models.DocEvidence
	Report   models.Report
	Markdown string
	Usage    *models.TokenUsage
	Decision gate.Decision
}

type DriftService struct {
	source    vcs.PullRequestSource
	publisher vcs.CommentPublisher
	judge     ai.DriftJudge
	fetcher   evidence.Fetcher
	config    *config.Config
}

type DriftOption func(*DriftService)

func WithDriftSource(source vcs.PullRequestSource) DriftOption {
	return func(s *DriftService) {
		s.source = source
	}
}

func WithDriftPublisher(publisher vcs.CommentPublisher) DriftOption {
	return func(s *DriftService) {
		s.publisher = publisher
	}
}

func WithDriftJudge(judge ai.DriftJudge) DriftOption {
	return func(s *DriftService) {
		s.judge = judge
	}
}

func WithDriftFetcher(fetcher evidence.Fetcher) DriftOption {
	return func(s *DriftService) {
		s.fetcher = fetcher
	}
}

func WithDriftConfig(cfg *config.Config) DriftOption {
	return func(s *DriftService) {
		s.config = cfg
	}
}

func NewDriftService(opts ...DriftOption) *DriftService {
	s := &DriftService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check runs one drift check for a pull request and publishes the report.
// Judgment failures abort before anything is published. The gate decision
// is returned, not enforced.
func (s *DriftService) Check(ctx context.Context, prNumber int) (*CheckResult, error) {
	ctx = logger.With(ctx, "pr_number", prNumber)
	log := logger.FromContext(ctx)

	if err := s.validate(); err != nil {
		return nil, err
	}

	log.Info("checking documentation drift",
		"doc_sources", len(s.config.DocSources))

	files, err := s.source.ListFiles(ctx, prNumber)
	if err != nil {
		log.Error("failed to list changed files", "error", err)
		return nil, err
	}

	result := &CheckResult{
		Files:  files,
		Tokens: extract.ExtractTokens(files, s.config.MaxTokens),
		Deps:   dependency.DetectAll(files, s.config.MaxDependencies),
	}

	log.Debug("change analyzed",
		"files", len(files),
		"tokens", len(result.Tokens),
		"deps_added", len(result.Deps.Added),
		"deps_removed", len(result.Deps.Removed),
		"deps_updated", len(result.Deps.Updated))

	builder := evidence.NewBuilder(s.fetcher, evidence.Options{MaxDocBytes: s.config.MaxDocBytes})
	result.Evidence = builder.Build(ctx, s.config.DocSources, result.Tokens, result.Deps)

	req := ai.NewJudgmentRequest(files, result.Tokens, result.Deps, result.Evidence, s.config.MaxFindings)

	start := time.Now()
	judged, usage, err := s.judge.Judge(ctx, req)
	if err != nil {
		log.Error("drift judgment failed",
			"error", err,
			"provider", s.judge.GetProviderName(),
			"model", s.judge.GetModelName())
		return nil, wrapJudgmentError(err)
	}
	s.logUsage(ctx, usage, time.Since(start))

	result.Usage = usage
	result.Report = judged.Capped(s.config.MaxFindings)
	result.Markdown = report.Render(result.Report)

	if err := s.publisher.UpsertComment(ctx, prNumber, report.Marker, result.Markdown); err != nil {
		log.Error("failed to publish drift report", "error", err)
		return nil, err
	}

	result.Decision = gate.Evaluate(result.Report, s.config.FailOnDrift, s.config.ConfidenceThreshold)

	log.Info("drift check finished",
		"drift_detected", result.Report.DriftDetected,
		"findings", len(result.Report.Findings),
		"outcome", string(result.Decision.Outcome))

	return result, nil
}

func (s *DriftService) validate() error {
	switch {
	case s.config == nil:
		return domainErrors.NewAppError(domainErrors.TypeInternal, "drift service has no configuration", nil)
	case s.source == nil:
		return domainErrors.NewAppError(domainErrors.TypeInternal, "drift service has no pull request source", nil)
	case s.publisher == nil:
		return domainErrors.NewAppError(domainErrors.TypeInternal, "drift service has no report publisher", nil)
	case s.fetcher == nil:
		return domainErrors.NewAppError(domainErrors.TypeInternal, "drift service has no documentation fetcher", nil)
	case s.judge == nil:
		return domainErrors.ErrAPIKeyMissing
	}
	return nil
}

func (s *DriftService) logUsage(ctx context.Context, usage *models.TokenUsage, elapsed time.Duration) {
	if usage == nil {
		logger.Debug(ctx, "judgment returned no token usage",
			"duration_ms", elapsed.Milliseconds())
		return
	}
	logger.Info(ctx, "judgment token usage",
		"provider", usage.Provider,
		"model", usage.Model,
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
		"total_tokens", usage.TotalTokens,
		"duration_ms", elapsed.Milliseconds())
}

func wrapJudgmentError(err error) error {
	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return domainErrors.ErrJudgment.WithError(err)
}
