package providers

import (
	"context"
	"io"

	"github.com/thomas-vilte/docdrift/internal/config"
	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/vcs"
	"github.com/thomas-vilte/docdrift/internal/vcs/github"
	"github.com/thomas-vilte/docdrift/internal/vcs/local"
)

// VCSOptions selects where changes come from and where the report goes.
type VCSOptions struct {
	// DiffFile switches to offline mode: changes are read from a unified
	// diff and the report is printed.
	DiffFile string
	// DryRun prints the report instead of commenting on the pull request.
	DryRun bool
	// Out receives printed reports.
	Out io.Writer
}

// NewVCSClients creates the pull request source and the report publisher
// for the given options. GitHub is used unless a diff file is given.
func NewVCSClients(ctx context.Context, cfg *config.Config, opts VCSOptions) (vcs.PullRequestSource, vcs.CommentPublisher, error) {
	if opts.DiffFile != "" {
		return local.NewDiffFileSource(opts.DiffFile), local.NewWriterPublisher(opts.Out), nil
	}

	if cfg.Repository() == "" {
		return nil, nil, domainErrors.ErrRepositoryMissing
	}
	if cfg.GitHubToken == "" {
		return nil, nil, domainErrors.ErrTokenMissing.WithContext("repo", cfg.Repository())
	}

	client := github.NewGitHubClient(ctx, cfg.RepoOwner, cfg.RepoName, cfg.GitHubToken)
	if opts.DryRun {
		return client, local.NewWriterPublisher(opts.Out), nil
	}
	return client, client, nil
}
