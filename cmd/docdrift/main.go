package main

import (
	"context"
	"log"
	"os"

	"github.com/thomas-vilte/docdrift/internal/commands/check"
	"github.com/thomas-vilte/docdrift/internal/commands/render"
	cfg "github.com/thomas-vilte/docdrift/internal/config"
	"github.com/thomas-vilte/docdrift/internal/fetch"
	"github.com/thomas-vilte/docdrift/internal/i18n"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/providers"
	"github.com/thomas-vilte/docdrift/internal/services"
	"github.com/thomas-vilte/docdrift/internal/ui"
	"github.com/thomas-vilte/docdrift/internal/version"
	"github.com/urfave/cli/v3"
)

// fetchReadFactor bounds the raw bytes read per document relative to
// DOCDRIFT_MAX_DOC_BYTES, leaving room for markup and multi-byte charsets.
const fetchReadFactor = 4

func main() {
	lang, _ := os.LookupEnv(cfg.EnvLanguage)
	translations, err := i18n.NewTranslations(cfg.GetLocaleConfig(lang))
	if err != nil {
		log.Fatalf("error loading translations: %v", err)
	}

	app := initializeApp(translations)
	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(1)
	}
}

func initializeApp(translations *i18n.Translations) *cli.Command {
	loadConfig := func() (*cfg.Config, error) {
		return cfg.Load(os.LookupEnv)
	}

	commands := []*cli.Command{
		check.NewCheckCommand(loadConfig, newDriftChecker, os.Stdout, os.Stderr).CreateCommand(translations),
		render.NewRenderCommand(os.Stdin, os.Stdout).CreateCommand(translations),
	}

	return &cli.Command{
		Name:     "docdrift",
		Usage:    translations.GetMessage("app_usage", 0, nil),
		Version:  version.FullVersion(),
		Commands: commands,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: translations.GetMessage("flags.debug_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: translations.GetMessage("flags.verbose_usage", 0, nil),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger.Initialize(cmd.Bool("debug"), cmd.Bool("verbose"))
			return ctx, nil
		},
	}
}

func newDriftChecker(ctx context.Context, config *cfg.Config, opts providers.VCSOptions) (check.DriftChecker, error) {
	source, publisher, err := providers.NewVCSClients(ctx, config, opts)
	if err != nil {
		return nil, err
	}

	judge, err := providers.NewDriftJudge(ctx, config)
	if err != nil {
		return nil, err
	}

	fetcher := fetch.NewHTTPFetcher(int64(config.MaxDocBytes) * fetchReadFactor)

	return services.NewDriftService(
		services.WithDriftSource(source),
		services.WithDriftPublisher(publisher),
		services.WithDriftJudge(judge),
		services.WithDriftFetcher(fetcher),
		services.WithDriftConfig(config),
	), nil
}
