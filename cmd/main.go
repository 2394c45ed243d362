package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/thomas-vilte/matechangelog/internal/commands/changelogs"
	"github.com/thomas-vilte/matechangelog/internal/commands/commits"
	"github.com/thomas-vilte/matechangelog/internal/commands/completion"
	"github.com/thomas-vilte/matechangelog/internal/commands/registry"
	"github.com/thomas-vilte/matechangelog/internal/commands/serve"
	cfg "github.com/thomas-vilte/matechangelog/internal/config"
	"github.com/thomas-vilte/matechangelog/internal/di"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/server"
	"github.com/thomas-vilte/matechangelog/internal/ui"
	"github.com/thomas-vilte/matechangelog/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, container, err := initializeApp()
	if err != nil {
		ui.HandleAppError(os.Stderr, err)
		log.Fatalf("error starting matechangelog: %v", err)
	}

	runErr := app.Run(ctx, os.Args)
	if err := container.Close(); err != nil {
		logger.Error(ctx, "failed to close resources", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *di.Container, error) {
	cfgApp, err := cfg.LoadConfig(cfg.PathFromEnv())
	if err != nil {
		return nil, nil, err
	}

	logger.Initialize(logger.Options{
		Level:  cfgApp.Log.Level,
		Format: cfgApp.Log.Format,
	})

	container := di.NewContainer(cfgApp)

	changelogProvider := func(ctx context.Context) (changelogs.ChangelogService, error) {
		return container.GetChangelogService(ctx)
	}
	commitsProvider := func(ctx context.Context) (commits.CommitReporter, error) {
		return container.GetChangelogService(ctx)
	}
	serverProvider := func(ctx context.Context) (server.ChangelogService, error) {
		return container.GetChangelogService(ctx)
	}

	registerCommand := registry.NewRegistry(cfgApp)
	factories := []struct {
		name    string
		factory registry.CommandFactory
	}{
		{"generate", changelogs.NewGenerateCommandFactory(changelogProvider)},
		{"list", changelogs.NewListCommandFactory(changelogProvider)},
		{"show", changelogs.NewShowCommandFactory(changelogProvider)},
		{"delete", changelogs.NewDeleteCommandFactory(changelogProvider)},
		{"commits", commits.NewCommitsCommandFactory(commitsProvider, os.Stdout)},
		{"serve", serve.NewServeCommandFactory(serverProvider, container.GetMetrics())},
		{"completion", completion.NewCompletionCommandFactory(os.Stdout)},
	}
	for _, f := range factories {
		if err := registerCommand.Register(f.name, f.factory); err != nil {
			return nil, nil, err
		}
	}

	return &cli.Command{
		Name:                  "matechangelog",
		Usage:                 "Generate AI-classified changelogs from GitHub commit history",
		Version:               version.FullVersion(),
		Commands:              registerCommand.CreateCommands(),
		EnableShellCompletion: true,
	}, container, nil
}
