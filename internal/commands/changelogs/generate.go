package changelogs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/thomas-vilte/matechangelog/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matechangelog/internal/config"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/services"
	"github.com/thomas-vilte/matechangelog/internal/ui"
	"github.com/urfave/cli/v3"
)

type GenerateCommandFactory struct {
	provider ServiceProvider
	io       commandIO
}

func NewGenerateCommandFactory(provider ServiceProvider, opts ...Option) *GenerateCommandFactory {
	return &GenerateCommandFactory{provider: provider, io: newCommandIO(opts)}
}

func (f *GenerateCommandFactory) CreateCommand(config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Aliases:   []string{"g"},
		Usage:     "Generate and store a changelog for a GitHub repository",
		ArgsUsage: "<repo-url>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "from",
				Usage: "Only include commits on or after this date (YYYY-MM-DD or RFC3339)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Only include commits on or before this date (YYYY-MM-DD or RFC3339)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the stored changelog as JSON",
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := config.RequireAIKey(); err != nil {
				ui.HandleAppError(f.io.out, err)
				return err
			}
			return f.action(ctx, cmd)
		},
	}
}

func (f *GenerateCommandFactory) action(ctx context.Context, cmd *cli.Command) error {
	log := logger.FromContext(ctx)
	start := time.Now()

	req := services.GenerateRequest{
		RepoURL:  cmd.Args().First(),
		FromDate: cmd.String("from"),
		ToDate:   cmd.String("to"),
	}

	log.Info("executing generate command",
		"repo_url", req.RepoURL,
		"from", req.FromDate,
		"to", req.ToDate)

	svc, err := f.provider(ctx)
	if err != nil {
		log.Error("failed to create changelog service",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		ui.HandleAppError(f.io.out, err)
		return err
	}

	var cl *models.Changelog
	err = ui.WithSpinnerAndDuration(f.io.out, "Generating changelog", func() error {
		var genErr error
		cl, genErr = svc.Generate(ctx, req)
		return genErr
	})
	if err != nil {
		log.Error("changelog generation failed",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		ui.HandleAppError(f.io.out, err)
		return err
	}

	log.Info("generate command completed successfully",
		"changelog_id", cl.ID,
		"changes_count", len(cl.Changes),
		"duration_ms", time.Since(start).Milliseconds())

	if cmd.Bool("json") {
		return writeJSON(f.io, cl)
	}
	ui.PrintChangelog(f.io.out, cl)
	return nil
}

func writeJSON(c commandIO, v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("error encoding output: %w", err)
	}
	return nil
}
