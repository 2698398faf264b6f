package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/models"
	"github.com/thomas-vilte/docdrift/internal/vcs"
)

const perPage = 100

var (
	_ vcs.PullRequestSource = (*GitHubClient)(nil)
	_ vcs.CommentPublisher  = (*GitHubClient)(nil)
)

type PullRequestsService interface {
	ListFiles(ctx context.Context, owner, repo string, number int, opts *github.ListOptions) ([]*github.CommitFile, *github.Response, error)
}

type IssuesService interface {
	ListComments(ctx context.Context, owner, repo string, number int, opts *github.IssueListCommentsOptions) ([]*github.IssueComment, *github.Response, error)
	CreateComment(ctx context.Context, owner, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
	EditComment(ctx context.Context, owner, repo string, commentID int64, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
}

type GitHubClient struct {
	prService     PullRequestsService
	issuesService IssuesService
	owner         string
	repo          string
}

func NewGitHubClient(ctx context.Context, owner, repo, token string) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	client := github.NewClient(httpClient)
	return NewGitHubClientWithServices(client.PullRequests, client.Issues, owner, repo)
}

func NewGitHubClientWithServices(prService PullRequestsService, issuesService IssuesService, owner, repo string) *GitHubClient {
	return &GitHubClient{
		prService:     prService,
		issuesService: issuesService,
		owner:         owner,
		repo:          repo,
	}
}

// ListFiles pages through the pull request files, 100 per page.
func (ghc *GitHubClient) ListFiles(ctx context.Context, prNumber int) ([]models.ChangedFile, error) {
	log := logger.FromContext(ctx)

	log.Debug("listing github pull request files",
		"owner", ghc.owner,
		"repo", ghc.repo,
		"pr_number", prNumber)

	var files []models.ChangedFile
	opts := &github.ListOptions{PerPage: perPage}
	for {
		page, resp, err := ghc.prService.ListFiles(ctx, ghc.owner, ghc.repo, prNumber, opts)
		if err != nil {
			log.Error("failed to list github PR files",
				"error", err,
				"pr_number", prNumber,
				"page", opts.Page)
			return nil, ghc.classify(resp, err, domainErrors.ErrListFiles, "list PR files", prNumber)
		}

		for _, f := range page {
			files = append(files, models.ChangedFile{
				Filename: f.GetFilename(),
				Status:   f.GetStatus(),
				Patch:    f.GetPatch(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	log.Debug("github PR files listed",
		"pr_number", prNumber,
		"count", len(files))

	return files, nil
}

// UpsertComment edits the first issue comment whose first line is marker,
// or creates a new comment.
func (ghc *GitHubClient) UpsertComment(ctx context.Context, prNumber int, marker string, body string) error {
	log := logger.FromContext(ctx)

	existing, err := ghc.findComment(ctx, prNumber, marker)
	if err != nil {
		return err
	}

	if existing != nil {
		_, resp, err := ghc.issuesService.EditComment(ctx, ghc.owner, ghc.repo, existing.GetID(), &github.IssueComment{
			Body: github.Ptr(body),
		})
		if err != nil {
			return ghc.classify(resp, err, domainErrors.ErrPublishComment, "edit comment", prNumber)
		}
		log.Info("drift report comment updated",
			"pr_number", prNumber,
			"comment_id", existing.GetID())
		return nil
	}

	created, resp, err := ghc.issuesService.CreateComment(ctx, ghc.owner, ghc.repo, prNumber, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return ghc.classify(resp, err, domainErrors.ErrPublishComment, "create comment", prNumber)
	}
	log.Info("drift report comment created",
		"pr_number", prNumber,
		"comment_id", created.GetID())
	return nil
}

func (ghc *GitHubClient) findComment(ctx context.Context, prNumber int, marker string) (*github.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		comments, resp, err := ghc.issuesService.ListComments(ctx, ghc.owner, ghc.repo, prNumber, opts)
		if err != nil {
			return nil, ghc.classify(resp, err, domainErrors.ErrPublishComment, "list comments", prNumber)
		}

		for _, c := range comments {
			if HasMarker(c.GetBody(), marker) {
				return c, nil
			}
		}

		if resp == nil || resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

// HasMarker reports whether the first line of body is marker.
func HasMarker(body, marker string) bool {
	first, _, _ := strings.Cut(body, "\n")
	return strings.TrimSpace(first) == marker
}

func (ghc *GitHubClient) classify(resp *github.Response, err error, fallback *domainErrors.AppError, operation string, prNumber int) error {
	repo := fmt.Sprintf("%s/%s", ghc.owner, ghc.repo)

	if resp != nil && resp.Response != nil {
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return domainErrors.ErrGitHubTokenInvalid.
				WithContext("operation", operation).
				WithContext("pr_number", prNumber).
				WithError(err)
		case http.StatusForbidden:
			return domainErrors.ErrGitHubInsufficientPerms.
				WithContext("operation", operation).
				WithContext("pr_number", prNumber).
				WithContext("repo", repo).
				WithError(err)
		case http.StatusNotFound:
			return domainErrors.ErrRepositoryNotFound.
				WithContext("operation", operation).
				WithContext("pr_number", prNumber).
				WithContext("repo", repo).
				WithError(err)
		case http.StatusTooManyRequests:
			return domainErrors.ErrGitHubRateLimit.
				WithContext("retry_after", resp.Header.Get("Retry-After")).
				WithContext("operation", operation).
				WithError(err)
		}
	}

	return fallback.
		WithContext("operation", operation).
		WithContext("pr_number", prNumber).
		WithContext("repo", repo).
		WithError(err)
}
