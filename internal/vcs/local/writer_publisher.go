package local

import (
	"context"
	"fmt"
	"io"

	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/vcs"
)

var _ vcs.CommentPublisher = (*WriterPublisher)(nil)

// WriterPublisher prints the report instead of commenting on a pull request.
// Used for dry runs and offline diffs.
type WriterPublisher struct {
	out io.Writer
}

func NewWriterPublisher(out io.Writer) *WriterPublisher {
	return &WriterPublisher{out: out}
}

func (p *WriterPublisher) UpsertComment(ctx context.Context, prNumber int, marker string, body string) error {
	if _, err := fmt.Fprintln(p.out, body); err != nil {
		return domainErrors.ErrPublishComment.
			WithContext("operation", "write report").
			WithError(err)
	}

	logger.Debug(ctx, "drift report written",
		"pr_number", prNumber,
		"bytes", len(body))
	return nil
}
