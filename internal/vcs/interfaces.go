package vcs

import (
	"context"

	"github.com/thomas-vilte/docdrift/internal/models"
)

// PullRequestSource supplies the changed files of a pull request.
type PullRequestSource interface {
	// ListFiles returns every changed file of the pull request with its patch.
	// Pagination is handled by the implementation.
	ListFiles(ctx context.Context, prNumber int) ([]models.ChangedFile, error)
}

// CommentPublisher publishes the drift report on a pull request.
type CommentPublisher interface {
	// UpsertComment updates the comment whose first line equals marker, or
	// creates a new comment when none exists.
	UpsertComment(ctx context.Context, prNumber int, marker string, body string) error
}
