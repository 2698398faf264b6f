package check

import (
	"context"
	"fmt"
	"io"
	"time"

	cfg "github.com/thomas-vilte/docdrift/internal/config"
	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/gate"
	"github.com/thomas-vilte/docdrift/internal/i18n"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/providers"
	"github.com/thomas-vilte/docdrift/internal/services"
	"github.com/thomas-vilte/docdrift/internal/ui"
	"github.com/urfave/cli/v3"
)

// DriftChecker is a minimal interface for testing purposes
type DriftChecker interface {
	Check(ctx context.Context, prNumber int) (*services.CheckResult, error)
}

// ConfigLoader builds the configuration on demand so that commands which do
// not need it never fail on it.
type ConfigLoader func() (*cfg.Config, error)

// CheckerProvider wires a DriftChecker for the given configuration and options.
type CheckerProvider func(ctx context.Context, config *cfg.Config, opts providers.VCSOptions) (DriftChecker, error)

type CheckCommand struct {
	loadConfig ConfigLoader
	provider   CheckerProvider
	stdout     io.Writer
	stderr     io.Writer
}

// NewCheckCommand creates the check command. Printed reports go to stdout and
// the closing summary to stderr.
func NewCheckCommand(loadConfig ConfigLoader, provider CheckerProvider, stdout, stderr io.Writer) *CheckCommand {
	return &CheckCommand{
		loadConfig: loadConfig,
		provider:   provider,
		stdout:     stdout,
		stderr:     stderr,
	}
}

func (c *CheckCommand) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: t.GetMessage("check.usage", 0, nil),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "pr",
				Aliases: []string{"n"},
				Usage:   t.GetMessage("check.pr_usage", 0, nil),
			},
			&cli.StringFlag{
				Name:    "diff-file",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("check.diff_file_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: t.GetMessage("check.dry_run_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			start := time.Now()

			config, err := c.loadConfig()
			if err != nil {
				log.Error("failed to load configuration",
					"error", err)
				return fmt.Errorf(t.GetMessage("error.config_load", 0, nil)+": %w", err)
			}

			opts := providers.VCSOptions{
				DiffFile: cmd.String("diff-file"),
				DryRun:   cmd.Bool("dry-run"),
				Out:      c.stdout,
			}

			prNumber := cmd.Int("pr")
			if prNumber == 0 {
				prNumber = config.PRNumber
			}
			if prNumber <= 0 && opts.DiffFile == "" {
				log.Error("PR number is required")
				return domainErrors.ErrPRNumberMissing.
					WithContext("detail", t.GetMessage("error.pr_number_required", 0, nil))
			}

			log.Info("executing check command",
				"pr_number", prNumber,
				"diff_file", opts.DiffFile,
				"dry_run", opts.DryRun,
				"provider", string(config.AIProvider),
				"model", string(config.AIModel))

			checker, err := c.provider(ctx, config, opts)
			if err != nil {
				log.Error("failed to create drift checker",
					"error", err,
					"duration_ms", time.Since(start).Milliseconds())
				return err
			}

			result, err := checker.Check(ctx, prNumber)
			if err != nil {
				log.Error("drift check failed",
					"error", err,
					"pr_number", prNumber,
					"duration_ms", time.Since(start).Milliseconds())
				return err
			}

			log.Info("drift check completed",
				"pr_number", prNumber,
				"duration_ms", time.Since(start).Milliseconds())

			count := len(result.Report.Findings)
			ui.PrintOutcome(c.stderr, result.Decision.Outcome, t.GetMessage("check.summary", count, map[string]interface{}{
				"Outcome": string(result.Decision.Outcome),
				"Count":   count,
			}))
			ui.PrintTokenUsage(c.stderr, result.Usage, t)

			return gate.Enforce(ctx, result.Decision)
		},
	}
}
