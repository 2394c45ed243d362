package completion

import (
	"context"
	"fmt"
	"io"
	"os"

	cfg "github.com/thomas-vilte/matechangelog/internal/config"
	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `#! /bin/bash

_matechangelog_bash_autocomplete() {
  if [[ "${COMP_WORDS[0]}" != "source" ]]; then
    local cur opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    local cmd_context=("${COMP_WORDS[@]:0:$COMP_CWORD}")
    opts=$( "${cmd_context[@]}" --generate-shell-completion )
    COMPREPLY=( $(compgen -W "${opts}" -- ${cur}) )
    return 0
  fi
}

complete -o bashdefault -o default -o nospace -F _matechangelog_bash_autocomplete matechangelog
`

const zshCompletionScript = `#compdef matechangelog

_matechangelog() {
  local -a opts
  local cmd_context=("${(@)words[1,$CURRENT-1]}")
  opts=("${(@f)$("${cmd_context[@]}" --generate-shell-completion)}")
  _describe 'values' opts
}

compdef _matechangelog matechangelog
`

type CompletionCommandFactory struct {
	out io.Writer
}

func NewCompletionCommandFactory(out io.Writer) *CompletionCommandFactory {
	if out == nil {
		out = os.Stdout
	}
	return &CompletionCommandFactory{out: out}
}

func (f *CompletionCommandFactory) CreateCommand(_ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:        "completion",
		Usage:       "Print a shell completion script",
		Description: "Add `source <(matechangelog completion bash)` to your shell profile.",
		Commands: []*cli.Command{
			{
				Name:   "bash",
				Usage:  "Print the bash completion script",
				Action: f.print(bashCompletionScript),
			},
			{
				Name:   "zsh",
				Usage:  "Print the zsh completion script",
				Action: f.print(zshCompletionScript),
			},
		},
	}
}

func (f *CompletionCommandFactory) print(script string) cli.ActionFunc {
	return func(context.Context, *cli.Command) error {
		_, err := fmt.Fprint(f.out, script)
		return err
	}
}
