package changelog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thomas-vilte/matechangelog/internal/models"
)

const emptySummary = "No changes"

// Assembler turns classified changes into a Changelog ready to be persisted.
type Assembler struct {
	now   func() time.Time
	newID func() string
}

type AssemblerOption func(*Assembler)

func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

func WithIDGenerator(newID func() string) AssemblerOption {
	return func(a *Assembler) {
		a.newID = newID
	}
}

func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the aggregate. The version is the generation date ("v2024-03-05")
// and every change gets its own id, never the commit SHA.
func (a *Assembler) Assemble(repoURL, repoName string, changes []models.AnalyzedChange) *models.Changelog {
	now := a.now().UTC()

	cl := &models.Changelog{
		ID:        a.newID(),
		RepoURL:   repoURL,
		Version:   "v" + now.Format("2006-01-02"),
		Date:      now,
		Title:     "Changelog for " + repoName,
		Summary:   joinNonEmpty(changes, func(c models.AnalyzedChange) string { return c.Description }),
		WhatsNew:  joinNonEmpty(changes, func(c models.AnalyzedChange) string { return c.WhatsNew }),
		Impact:    joinNonEmpty(changes, func(c models.AnalyzedChange) string { return c.Impact }),
		Upgrade:   "",
		Changes:   make([]models.Change, 0, len(changes)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(changes) == 0 {
		cl.Summary = emptySummary
	}

	for _, c := range changes {
		cl.Changes = append(cl.Changes, models.Change{
			ID:          a.newID(),
			ChangelogID: cl.ID,
			Description: c.Description,
			Type:        models.ParseCategory(string(c.Category)),
			Impact:      c.Impact,
			WhatsNew:    c.WhatsNew,
			Details:     "",
			Author:      c.Author,
			Date:        c.Date,
			SHA:         c.SHA,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	return cl
}

func joinNonEmpty(changes []models.AnalyzedChange, field func(models.AnalyzedChange) string) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		if v := strings.TrimSpace(field(c)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}
