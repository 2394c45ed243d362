package changelogs

import (
	"context"
	"io"
	"os"

	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/services"
	"github.com/thomas-vilte/matechangelog/internal/storage"
)

// ChangelogService is the part of the pipeline the changelog commands use.
type ChangelogService interface {
	Generate(ctx context.Context, req services.GenerateRequest) (*models.Changelog, error)
	List(ctx context.Context, filter storage.ChangelogFilter) ([]models.Changelog, error)
	Get(ctx context.Context, id string) (*models.Changelog, error)
	Delete(ctx context.Context, id string) error
}

// ServiceProvider builds the service when a command runs, so commands that
// fail on flags never open the database.
type ServiceProvider func(ctx context.Context) (ChangelogService, error)

type commandIO struct {
	out io.Writer
	in  io.Reader
}

type Option func(*commandIO)

func WithOutput(w io.Writer) Option {
	return func(c *commandIO) {
		c.out = w
	}
}

func WithInput(r io.Reader) Option {
	return func(c *commandIO) {
		c.in = r
	}
}

func newCommandIO(opts []Option) commandIO {
	c := commandIO{out: os.Stdout, in: os.Stdin}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
