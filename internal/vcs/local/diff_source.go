package local

import (
	"bytes"
	"context"
	"os"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/models"
	"github.com/thomas-vilte/docdrift/internal/vcs"
)

const devNull = "/dev/null"

var _ vcs.PullRequestSource = (*DiffFileSource)(nil)

// DiffFileSource reads the changed files of a pull request from a multi-file
// unified diff on disk, e.g. the output of `git diff origin/main...HEAD`.
type DiffFileSource struct {
	path     string
	readFile func(string) ([]byte, error)
}

func NewDiffFileSource(path string) *DiffFileSource {
	return &DiffFileSource{path: path, readFile: os.ReadFile}
}

// ListFiles parses the diff file. The pull request number is only logged.
func (s *DiffFileSource) ListFiles(ctx context.Context, prNumber int) ([]models.ChangedFile, error) {
	log := logger.FromContext(ctx)

	data, err := s.readFile(s.path)
	if err != nil {
		return nil, domainErrors.ErrReadDiff.
			WithContext("path", s.path).
			WithError(err)
	}

	files, err := ParseDiff(data)
	if err != nil {
		return nil, domainErrors.ErrReadDiff.
			WithContext("path", s.path).
			WithContext("detail", "malformed unified diff").
			WithError(err)
	}

	log.Debug("diff file parsed",
		"path", s.path,
		"pr_number", prNumber,
		"count", len(files))

	return files, nil
}

// ParseDiff converts a multi-file unified diff into changed files. The patch
// of each file holds its hunks only, like the GitHub API returns it.
func ParseDiff(data []byte) ([]models.ChangedFile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	fileDiffs, err := diff.NewMultiFileDiffReader(bytes.NewReader(data)).ReadAllFiles()
	if err != nil {
		return nil, err
	}

	files := make([]models.ChangedFile, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		patch, err := diff.PrintHunks(fd.Hunks)
		if err != nil {
			return nil, err
		}
		files = append(files, models.ChangedFile{
			Filename: fileName(fd),
			Status:   fileStatus(fd),
			Patch:    strings.TrimSuffix(string(patch), "\n"),
		})
	}
	return files, nil
}

func fileName(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == devNull {
		name = fd.OrigName
	}
	return stripPrefix(name)
}

func fileStatus(fd *diff.FileDiff) string {
	switch {
	case fd.OrigName == devNull:
		return "added"
	case fd.NewName == devNull:
		return "removed"
	case stripPrefix(fd.OrigName) != stripPrefix(fd.NewName):
		return "renamed"
	default:
		return "modified"
	}
}

func stripPrefix(name string) string {
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}
