package completion_helper

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints the subcommands and flags of the current command
// for shell completion.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	writeCompletions(os.Stdout, cmd)
}

func writeCompletions(w io.Writer, cmd *cli.Command) {
	for _, sub := range cmd.Commands {
		if sub.Hidden {
			continue
		}
		_, _ = fmt.Fprintln(w, sub.Name)
	}

	var flags []string
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				flags = append(flags, "-"+name)
			} else {
				flags = append(flags, "--"+name)
			}
		}
	}
	sort.Strings(flags)
	for _, f := range flags {
		_, _ = fmt.Fprintln(w, f)
	}
}
