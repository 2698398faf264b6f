package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thomas-vilte/docdrift/internal/config"
	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/gate"
	"github.com/thomas-vilte/docdrift/internal/models"
	"github.com/thomas-vilte/docdrift/internal/report"
)

const (
	apiDocURL   = "https://docs.example.com/api.md"
	setupDocURL = "https://docs.example.com/setup.md"
)

type driftFixture struct {
	source    *MockPullRequestSource
	publisher *MockCommentPublisher
	judge     *MockDriftJudge
	fetcher   *MockFetcher
	cfg       *config.Config
	service   *DriftService
}

func newDriftFixture() *driftFixture {
	f := &driftFixture{
		source:    new(MockPullRequestSource),
		publisher: new(MockCommentPublisher),
		judge:     new(MockDriftJudge),
		fetcher:   new(MockFetcher),
		cfg: &config.Config{
			ConfidenceThreshold: 0.75,
			MaxFindings:         2,
			MaxDocBytes:         10_000,
			MaxTokens:           40,
			MaxDependencies:     50,
			DocSources: []models.DocSource{
				{Title: "API", URL: apiDocURL},
				{Title: "Setup", URL: setupDocURL},
			},
		},
	}
	f.judge.On("GetProviderName").Return("openai").Maybe()
	f.judge.On("GetModelName").Return("gpt-4o-mini").Maybe()
	f.service = NewDriftService(
		WithDriftSource(f.source),
		WithDriftPublisher(f.publisher),
		WithDriftJudge(f.judge),
		WithDriftFetcher(f.fetcher),
		WithDriftConfig(f.cfg),
	)
	return f
}

func changedFiles() []models.ChangedFile {
	return []models.ChangedFile{
		{
			Filename: "server.js",
			Status:   "modified",
			Patch:    "@@ -1,1 +1,1 @@\n-app.get(\"/teams\", handler);\n+app.get(\"/squads\", handler);",
		},
		{
			Filename: "package.json",
			Status:   "modified",
			Patch:    "@@ -1,1 +1,1 @@\n-  \"lodash\": \"^4.16.0\",\n+  \"lodash\": \"^4.17.21\",",
		},
	}
}

func finding(confidence float64) models.Finding {
	return models.Finding{
		DocTitle:        "API",
		DocURL:          apiDocURL,
		ChangeSummary:   "Route /teams was renamed to /squads",
		ImpactStatement: "The docs still call GET /teams",
		Confidence:      confidence,
		Evidence:        []string{"GET /teams returns every team"},
	}
}

func TestDriftService_Check_Success(t *testing.T) {
	// Arrange
	f := newDriftFixture()
	judged := models.Report{DriftDetected: true, Findings: []models.Finding{finding(0.9), finding(0.6), finding(0.95)}}
	usage := &models.TokenUsage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120, Provider: "openai"}

	f.source.On("ListFiles", mock.Anything, 42).Return(changedFiles(), nil)
	f.fetcher.On("Fetch", mock.Anything, apiDocURL).Return([]byte("Call GET /teams to list every team."), nil)
	f.fetcher.On("Fetch", mock.Anything, setupDocURL).Return(nil, errors.New("connection refused"))
	f.judge.On("Judge", mock.Anything, mock.MatchedBy(func(req models.JudgmentRequest) bool {
		return req.Limits.MaxFindings == 2 &&
			len(req.PRFiles) == 2 &&
			assert.ObjectsAreEqual([]string{"lodash@^4.16.0 -> lodash@^4.17.21"}, req.DependencyChanges.Updated) &&
			len(req.DocumentationEvidence) == 1 &&
			req.DocumentationEvidence[0].Title == "API" &&
			len(req.RequiredBehavior) > 0
	})).Return(judged, usage, nil)
	f.publisher.On("UpsertComment", mock.Anything, 42, report.Marker, mock.MatchedBy(func(body string) bool {
		return strings.HasPrefix(body, report.Marker+"\n")
	})).Return(nil)

	// Act
	result, err := f.service.Check(context.Background(), 42)

	// Assert
	require.NoError(t, err)
	assert.Contains(t, result.Tokens, "/teams")
	assert.Contains(t, result.Tokens, "/squads")
	assert.Len(t, result.Report.Findings, 2, "findings are capped to max_findings")
	assert.Equal(t, 0.9, result.Report.MaxConfidence(), "the dropped third finding must not reach the gate")
	assert.Equal(t, report.Render(result.Report), result.Markdown)
	assert.Equal(t, usage, result.Usage)
	assert.Equal(t, gate.OutcomeWarn, result.Decision.Outcome)
	f.source.AssertExpectations(t)
	f.fetcher.AssertExpectations(t)
	f.judge.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestDriftService_Check_FailOnDrift(t *testing.T) {
	// Arrange
	f := newDriftFixture()
	f.cfg.FailOnDrift = true

	f.source.On("ListFiles", mock.Anything, 7).Return(changedFiles(), nil)
	f.fetcher.On("Fetch", mock.Anything, mock.Anything).Return([]byte("nothing relevant"), nil)
	f.judge.On("Judge", mock.Anything, mock.Anything).
		Return(models.Report{DriftDetected: true, Findings: []models.Finding{finding(0.8)}}, nil, nil)
	f.publisher.On("UpsertComment", mock.Anything, 7, report.Marker, mock.Anything).Return(nil)

	// Act
	result, err := f.service.Check(context.Background(), 7)

	// Assert
	require.NoError(t, err)
	assert.True(t, result.Decision.Failed())
	assert.Nil(t, result.Usage)
	for _, ev := range result.Evidence {
		assert.NotNil(t, ev.Hits)
	}
}

func TestDriftService_Check_NoDrift(t *testing.T) {
	f := newDriftFixture()

	f.source.On("ListFiles", mock.Anything, 3).Return([]models.ChangedFile{}, nil)
	f.fetcher.On("Fetch", mock.Anything, mock.Anything).Return([]byte("docs"), nil)
	f.judge.On("Judge", mock.Anything, mock.Anything).Return(models.Report{Findings: []models.Finding{}}, nil, nil)
	f.publisher.On("UpsertComment", mock.Anything, 3, report.Marker, mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, report.NoDriftSentence)
	})).Return(nil)

	result, err := f.service.Check(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, gate.OutcomePass, result.Decision.Outcome)
	f.publisher.AssertExpectations(t)
}

func TestDriftService_Check_Errors(t *testing.T) {
	t.Run("should stop when files cannot be listed", func(t *testing.T) {
		f := newDriftFixture()
		f.source.On("ListFiles", mock.Anything, 1).Return(nil, domainErrors.ErrListFiles)

		result, err := f.service.Check(context.Background(), 1)

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, domainErrors.ErrListFiles))
		f.fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
		f.judge.AssertNotCalled(t, "Judge", mock.Anything, mock.Anything)
	})

	t.Run("should publish nothing when the judgment fails", func(t *testing.T) {
		f := newDriftFixture()
		f.source.On("ListFiles", mock.Anything, 1).Return(changedFiles(), nil)
		f.fetcher.On("Fetch", mock.Anything, mock.Anything).Return([]byte("docs"), nil)
		f.judge.On("Judge", mock.Anything, mock.Anything).
			Return(models.Report{}, nil, domainErrors.ErrInvalidAIOutput.WithContext("detail", "missing findings"))

		result, err := f.service.Check(context.Background(), 1)

		assert.Nil(t, result)
		assert.True(t, errors.Is(err, domainErrors.ErrInvalidAIOutput))
		f.publisher.AssertNotCalled(t, "UpsertComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should wrap plain judgment errors", func(t *testing.T) {
		f := newDriftFixture()
		f.source.On("ListFiles", mock.Anything, 1).Return(changedFiles(), nil)
		f.fetcher.On("Fetch", mock.Anything, mock.Anything).Return([]byte("docs"), nil)
		f.judge.On("Judge", mock.Anything, mock.Anything).Return(models.Report{}, nil, errors.New("boom"))

		_, err := f.service.Check(context.Background(), 1)

		assert.True(t, errors.Is(err, domainErrors.ErrJudgment))
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("should surface publication errors", func(t *testing.T) {
		f := newDriftFixture()
		f.source.On("ListFiles", mock.Anything, 1).Return(changedFiles(), nil)
		f.fetcher.On("Fetch", mock.Anything, mock.Anything).Return([]byte("docs"), nil)
		f.judge.On("Judge", mock.Anything, mock.Anything).Return(models.Report{Findings: []models.Finding{}}, nil, nil)
		f.publisher.On("UpsertComment", mock.Anything, 1, report.Marker, mock.Anything).Return(domainErrors.ErrGitHubInsufficientPerms)

		_, err := f.service.Check(context.Background(), 1)

		assert.True(t, errors.Is(err, domainErrors.ErrGitHubInsufficientPerms))
	})

	t.Run("should require a judge", func(t *testing.T) {
		service := NewDriftService(
			WithDriftSource(new(MockPullRequestSource)),
			WithDriftPublisher(new(MockCommentPublisher)),
			WithDriftFetcher(new(MockFetcher)),
			WithDriftConfig(&config.Config{}),
		)

		_, err := service.Check(context.Background(), 1)

		assert.True(t, errors.Is(err, domainErrors.ErrAPIKeyMissing))
	})

	t.Run("should require a configuration", func(t *testing.T) {
		_, err := NewDriftService().Check(context.Background(), 1)

		var appErr *domainErrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, domainErrors.TypeInternal, appErr.Type)
	})
}
