package render

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/thomas-vilte/docdrift/internal/ai"
	"github.com/thomas-vilte/docdrift/internal/i18n"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/report"
	"github.com/urfave/cli/v3"
)

const stdinArg = "-"

// RenderCommand turns a saved judgment into the markdown report without
// calling any external service.
type RenderCommand struct {
	stdin    io.Reader
	stdout   io.Writer
	readFile func(string) ([]byte, error)
}

func NewRenderCommand(stdin io.Reader, stdout io.Writer) *RenderCommand {
	return &RenderCommand{
		stdin:    stdin,
		stdout:   stdout,
		readFile: os.ReadFile,
	}
}

func (c *RenderCommand) CreateCommand(t *i18n.Translations) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     t.GetMessage("render.usage", 0, nil),
		ArgsUsage: t.GetMessage("render.args_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-findings",
				Usage: t.GetMessage("render.max_findings_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			input := cmd.Args().First()
			if input == "" {
				return fmt.Errorf("%s", t.GetMessage("error.render_input_required", 0, nil))
			}

			data, err := c.read(input)
			if err != nil {
				log.Error("failed to read judgment",
					"error", err,
					"input", input)
				return fmt.Errorf(t.GetMessage("error.render_read", 0, nil)+": %w", err)
			}

			judged, err := ai.ParseReport(string(data), cmd.Int("max-findings"))
			if err != nil {
				log.Error("failed to parse judgment",
					"error", err,
					"input", input)
				return fmt.Errorf(t.GetMessage("error.render_parse", 0, nil)+": %w", err)
			}

			log.Debug("rendering judgment",
				"input", input,
				"findings", len(judged.Findings))

			_, err = io.WriteString(c.stdout, report.Render(judged))
			return err
		},
	}
}

func (c *RenderCommand) read(input string) ([]byte, error) {
	if input == stdinArg {
		return io.ReadAll(c.stdin)
	}
	return c.readFile(input)
}
