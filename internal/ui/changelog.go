package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/thomas-vilte/matechangelog/internal/models"
)

var categoryColors = map[models.Category]*color.Color{
	models.CategoryFeature:     color.New(color.FgGreen, color.Bold),
	models.CategoryBugfix:      color.New(color.FgRed, color.Bold),
	models.CategoryEnhancement: color.New(color.FgCyan, color.Bold),
	models.CategoryRefactor:    color.New(color.FgBlue, color.Bold),
	models.CategoryDocs:        color.New(color.FgWhite, color.Bold),
	models.CategoryBreaking:    color.New(color.FgHiRed, color.Bold),
	models.CategorySecurity:    color.New(color.FgYellow, color.Bold),
	models.CategoryPerformance: color.New(color.FgMagenta, color.Bold),
	models.CategoryDependency:  color.New(color.FgHiBlue, color.Bold),
}

func categoryLabel(c models.Category) string {
	col, ok := categoryColors[c]
	if !ok {
		col = Dim
	}
	return col.Sprintf("[%s]", c)
}

// PrintChangelog renders one changelog with all of its changes.
func PrintChangelog(w io.Writer, cl *models.Changelog) {
	PrintSectionBanner(w, cl.Title)
	PrintKeyValue(w, "ID", cl.ID)
	PrintKeyValue(w, "Repository", cl.RepoURL)
	PrintKeyValue(w, "Version", cl.Version)
	PrintKeyValue(w, "Date", cl.Date.UTC().Format("2006-01-02 15:04 MST"))
	PrintKeyValue(w, "Changes", fmt.Sprintf("%d", len(cl.Changes)))

	if len(cl.Changes) == 0 {
		_, _ = fmt.Fprintln(w)
		PrintInfo(w, cl.Summary)
		return
	}

	_, _ = fmt.Fprintln(w)
	for _, c := range cl.Changes {
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		_, _ = fmt.Fprintf(w, "%s %s %s\n", categoryLabel(c.Type), c.Description, Dim.Sprintf("(%s, %s)", sha, c.Author))
		if c.WhatsNew != "" {
			_, _ = fmt.Fprintf(w, "    %s %s\n", Dim.Sprint("What's new:"), c.WhatsNew)
		}
		if c.Impact != "" {
			_, _ = fmt.Fprintf(w, "    %s %s\n", Dim.Sprint("Impact:"), c.Impact)
		}
	}
}

// PrintChangelogList renders a one-line summary per changelog.
func PrintChangelogList(w io.Writer, changelogs []models.Changelog) {
	if len(changelogs) == 0 {
		PrintInfo(w, "No changelogs found")
		return
	}

	_, _ = fmt.Fprintf(w, "%s %s\n\n", StatsEmoji, Accent.Sprintf("%d changelog(s)", len(changelogs)))
	for _, cl := range changelogs {
		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
			Info.Sprint(cl.ID),
			cl.Version,
			cl.Title,
			Dim.Sprintf("%d change(s), %s", len(cl.Changes), cl.RepoURL))
	}
}
