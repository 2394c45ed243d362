package serve

import (
	"context"

	"github.com/thomas-vilte/matechangelog/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matechangelog/internal/config"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/metrics"
	"github.com/thomas-vilte/matechangelog/internal/server"
	"github.com/urfave/cli/v3"
)

type ServiceProvider func(ctx context.Context) (server.ChangelogService, error)

type ServeCommandFactory struct {
	provider ServiceProvider
	metrics  *metrics.Metrics
}

func NewServeCommandFactory(provider ServiceProvider, m *metrics.Metrics) *ServeCommandFactory {
	return &ServeCommandFactory{provider: provider, metrics: m}
}

func (f *ServeCommandFactory) CreateCommand(config *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the changelog HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Address to listen on",
				Value:   config.Server.Addr,
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.action,
	}
}

func (f *ServeCommandFactory) action(ctx context.Context, cmd *cli.Command) error {
	svc, err := f.provider(ctx)
	if err != nil {
		logger.Error(ctx, "failed to create changelog service", err)
		return err
	}

	var opts []server.Option
	if f.metrics != nil {
		opts = append(opts, server.WithMetrics(f.metrics))
	}
	return server.New(cmd.String("addr"), svc, opts...).Run(ctx)
}
