package commits

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thomas-vilte/matechangelog/internal/commands/completion_helper"
	cfg "github.com/thomas-vilte/matechangelog/internal/config"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/services"
	"github.com/thomas-vilte/matechangelog/internal/ui"
	"github.com/urfave/cli/v3"
)

// CommitReporter fetches the raw commit window of a repository.
type CommitReporter interface {
	Commits(ctx context.Context, req services.GenerateRequest) (*services.CommitReport, error)
}

type ReporterProvider func(ctx context.Context) (CommitReporter, error)

type CommitsCommandFactory struct {
	provider ReporterProvider
	out      io.Writer
}

func NewCommitsCommandFactory(provider ReporterProvider, out io.Writer) *CommitsCommandFactory {
	if out == nil {
		out = os.Stdout
	}
	return &CommitsCommandFactory{provider: provider, out: out}
}

func (f *CommitsCommandFactory) CreateCommand(_ *cfg.Config) *cli.Command {
	return &cli.Command{
		Name:      "commits",
		Usage:     "Show the commits and files a changelog would be built from",
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
				Name:  "patch",
				Usage: "Print the patch of every file",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the report as JSON",
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action:        f.action,
	}
}

func (f *CommitsCommandFactory) action(ctx context.Context, cmd *cli.Command) error {
	req := services.GenerateRequest{
		RepoURL:  cmd.Args().First(),
		FromDate: cmd.String("from"),
		ToDate:   cmd.String("to"),
	}

	reporter, err := f.provider(ctx)
	if err != nil {
		ui.HandleAppError(f.out, err)
		return err
	}

	report, err := reporter.Commits(ctx, req)
	if err != nil {
		logger.Error(ctx, "failed to fetch commits", err, "repo_url", req.RepoURL)
		ui.HandleAppError(f.out, err)
		return err
	}

	if cmd.Bool("json") {
		enc := json.NewEncoder(f.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("error encoding output: %w", err)
		}
		return nil
	}

	printReport(f.out, report, cmd.Bool("patch"))
	return nil
}

func printReport(w io.Writer, report *services.CommitReport, withPatch bool) {
	if len(report.Changes) == 0 {
		ui.PrintInfo(w, "No commits in this window")
		return
	}

	ui.PrintSectionBanner(w, fmt.Sprintf("%d commit(s), %d file(s)", report.Debug.TotalCommits, report.Debug.TotalFiles))
	for _, c := range report.Changes {
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		_, _ = fmt.Fprintf(w, "%s %s\n", ui.Info.Sprint(sha), firstLine(c.Message))
		ui.PrintKeyValue(w, "Author", c.Author)
		ui.PrintKeyValue(w, "Date", c.Date)
		ui.PrintKeyValue(w, "Stats", fmt.Sprintf("+%d -%d", c.Stats.Additions, c.Stats.Deletions))
		ui.ShowFilesTree(w, c.Files, "Files")
		if withPatch {
			_, _ = fmt.Fprintln(w, c.CodeChanges)
		}
		_, _ = fmt.Fprintln(w)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
