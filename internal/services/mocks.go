package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thomas-vilte/docdrift/internal/models"
)

type (
	MockPullRequestSource struct {
		mock.Mock
	}

	MockCommentPublisher struct {
		mock.Mock
	}

	MockDriftJudge struct {
		mock.Mock
	}

	MockFetcher struct {
		mock.Mock
	}
)

func (m *MockPullRequestSource) ListFiles(ctx context.Context, prNumber int) ([]models.ChangedFile, error) {
	args := m.Called(ctx, prNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChangedFile), args.Error(1)
}

func (m *MockCommentPublisher) UpsertComment(ctx context.Context, prNumber int, marker string, body string) error {
	args := m.Called(ctx, prNumber, marker, body)
	return args.Error(0)
}

func (m *MockDriftJudge) Judge(ctx context.Context, req models.JudgmentRequest) (models.Report, *models.TokenUsage, error) {
	args := m.Called(ctx, req)
	var usage *models.TokenUsage
	if args.Get(1) != nil {
		usage = args.Get(1).(*models.TokenUsage)
	}
	return args.Get(0).(models.Report), usage, args.Error(2)
}

func (m *MockDriftJudge) GetModelName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockDriftJudge) GetProviderName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
