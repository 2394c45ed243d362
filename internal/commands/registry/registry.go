package registry

import (
	"fmt"

	cfg "github.com/thomas-vilte/matechangelog/internal/config"
	"github.com/urfave/cli/v3"
)

type CommandFactory interface {
	CreateCommand(cfg *cfg.Config) *cli.Command
}

// Registry keeps command factories in registration order so the help output
// is stable.
type Registry struct {
	factories map[string]CommandFactory
	order     []string
	config    *cfg.Config
}

func NewRegistry(cfg *cfg.Config) *Registry {
	return &Registry{
		factories: make(map[string]CommandFactory),
		config:    cfg,
	}
}

func (r *Registry) Register(name string, factory CommandFactory) error {
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("command factory %q already registered", name)
	}
	r.factories[name] = factory
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) CreateCommands() []*cli.Command {
	commands := make([]*cli.Command, 0, len(r.factories))
	for _, name := range r.order {
		commands = append(commands, r.factories[name].CreateCommand(r.config))
	}
	return commands
}
