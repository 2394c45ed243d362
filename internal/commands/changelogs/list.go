package changelogs

import (
	"context"
	"errors"
	"fmt"

	"github.com/thomas-vilte/matechangelog/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matechangelog/internal/config"
	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/storage"
	"github.com/thomas-vilte/matechangelog/internal/ui"
	"github.com/urfave/cli/v3"
)

type ListCommandFactory struct {
	provider ServiceProvider
	io       commandIO
}

func NewListCommandFactory(provider ServiceProvider, opts ...Option) *ListCommandFactory {
	return &ListCommandFactory{provider: provider, io: newCommandIO(opts)}
}

func (f *ListCommandFactory) CreateCommand(_ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List stored changelogs, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Keep only changes of this category (FEATURE, BUGFIX, ...)",
			},
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"q"},
				Usage:   "Keep only changes whose description, author or type contains this text",
			},
			&cli.StringFlag{
				Name:  "repo",
				Usage: "Keep only changelogs of this repository URL",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the changelogs as JSON",
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.action,
	}
}

func (f *ListCommandFactory) action(ctx context.Context, cmd *cli.Command) error {
	filter := storage.ChangelogFilter{
		Type:    models.Category(cmd.String("type")),
		Search:  cmd.String("search"),
		RepoURL: cmd.String("repo"),
	}

	svc, err := f.provider(ctx)
	if err != nil {
		ui.HandleAppError(f.io.out, err)
		return err
	}

	list, err := svc.List(ctx, filter)
	if err != nil {
		logger.Error(ctx, "failed to list changelogs", err)
		ui.HandleAppError(f.io.out, err)
		return err
	}

	if cmd.Bool("json") {
		if list == nil {
			list = []models.Changelog{}
		}
		return writeJSON(f.io, list)
	}
	ui.PrintChangelogList(f.io.out, list)
	return nil
}

type ShowCommandFactory struct {
	provider ServiceProvider
	io       commandIO
}

func NewShowCommandFactory(provider ServiceProvider, opts ...Option) *ShowCommandFactory {
	return &ShowCommandFactory{provider: provider, io: newCommandIO(opts)}
}

func (f *ShowCommandFactory) CreateCommand(_ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one stored changelog with all of its changes",
		ArgsUsage: "<changelog-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the changelog as JSON",
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.action,
	}
}

func (f *ShowCommandFactory) action(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		err := domainErrors.ErrMissingField.WithContext("field", "changelog-id")
		ui.HandleAppError(f.io.out, err)
		return err
	}

	svc, err := f.provider(ctx)
	if err != nil {
		ui.HandleAppError(f.io.out, err)
		return err
	}

	cl, err := svc.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domainErrors.ErrChangelogNotFound) {
			logger.Error(ctx, "failed to fetch changelog", err, "changelog_id", id)
		}
		ui.HandleAppError(f.io.out, err)
		return err
	}

	if cmd.Bool("json") {
		return writeJSON(f.io, cl)
	}
	ui.PrintChangelog(f.io.out, cl)
	return nil
}

type DeleteCommandFactory struct {
	provider ServiceProvider
	io       commandIO
}

func NewDeleteCommandFactory(provider ServiceProvider, opts ...Option) *DeleteCommandFactory {
	return &DeleteCommandFactory{provider: provider, io: newCommandIO(opts)}
}

func (f *DeleteCommandFactory) CreateCommand(_ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a stored changelog and its changes",
		ArgsUsage: "<changelog-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Do not ask for confirmation",
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.action,
	}
}

func (f *DeleteCommandFactory) action(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		err := domainErrors.ErrMissingField.WithContext("field", "changelog-id")
		ui.HandleAppError(f.io.out, err)
		return err
	}

	if !cmd.Bool("yes") && !ui.AskConfirmation(f.io.in, f.io.out, fmt.Sprintf("Delete changelog %s?", id)) {
		ui.PrintInfo(f.io.out, "Nothing deleted")
		return nil
	}

	svc, err := f.provider(ctx)
	if err != nil {
		ui.HandleAppError(f.io.out, err)
		return err
	}

	if err := svc.Delete(ctx, id); err != nil {
		ui.HandleAppError(f.io.out, err)
		return err
	}
	ui.PrintSuccess(f.io.out, fmt.Sprintf("Changelog %s deleted", id))
	return nil
}
