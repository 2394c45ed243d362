package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/models"
)

func init() {
	color.NoColor = true
}

func TestHandleAppError(t *testing.T) {
	t.Run("app error with details and suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		err := domainErrors.ErrGitHubTokenInvalid.
			WithError(errors.New("401 Bad credentials")).
			WithSuggestion("Set GITHUB_TOKEN\nor add it to config.toml")

		HandleAppError(&buf, err)

		out := buf.String()
		assert.Contains(t, out, "VCS: GitHub token is invalid or expired")
		assert.Contains(t, out, "Details: 401 Bad credentials")
		assert.Contains(t, out, "💡 Try: Set GITHUB_TOKEN\n")
		assert.Contains(t, out, "       or add it to config.toml")
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("boom"))

		assert.Contains(t, buf.String(), "boom")
	})

	t.Run("nil", func(t *testing.T) {
		var buf bytes.Buffer

		HandleAppError(&buf, nil)

		assert.Empty(t, buf.String())
	})
}

func TestAskConfirmation(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer

			got := AskConfirmation(strings.NewReader(tt.input), &out, "Delete?")

			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete? (y/n)")
		})
	}
}

func TestShowFilesTree(t *testing.T) {
	var buf bytes.Buffer
	files := []models.FileChange{
		{Name: "internal/server/server.go", Additions: 10, Deletions: 2},
		{Name: "README.md", Additions: 1, Deletions: 4},
		{Name: "internal/api.go", Additions: 3},
	}

	ShowFilesTree(&buf, files, "Files:")

	assert.Equal(t, "\nFiles:\n"+
		"├── internal/\n"+
		"│   ├── server/\n"+
		"│   │   └── server.go (+10, -2)\n"+
		"│   └── api.go (+3, -0)\n"+
		"└── README.md (+1, -4)\n", buf.String())
}

func TestShowFilesTree_Empty(t *testing.T) {
	var buf bytes.Buffer

	ShowFilesTree(&buf, nil, "Files:")

	assert.Empty(t, buf.String())
}

func TestPrintChangelog(t *testing.T) {
	var buf bytes.Buffer
	cl := &models.Changelog{
		ID:      "c1",
		RepoURL: "https://github.com/octocat/hello-world",
		Version: "v2024-03-05",
		Date:    time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Title:   "Changelog for hello-world",
		Changes: []models.Change{{
			Description: "feat: add login",
			Type:        models.CategoryFeature,
			WhatsNew:    "Adds login",
			Impact:      "Users can log in",
			Author:      "Mona",
			SHA:         "aaaaaaa1bbbb",
		}},
	}

	PrintChangelog(&buf, cl)

	out := buf.String()
	assert.Contains(t, out, "Changelog for hello-world")
	assert.Contains(t, out, "Version: v2024-03-05")
	assert.Contains(t, out, "[FEATURE] feat: add login (aaaaaaa, Mona)")
	assert.Contains(t, out, "What's new: Adds login")
	assert.Contains(t, out, "Impact: Users can log in")
}

func TestPrintChangelog_Empty(t *testing.T) {
	var buf bytes.Buffer

	PrintChangelog(&buf, &models.Changelog{Title: "Changelog for x", Summary: "No changes"})

	assert.Contains(t, buf.String(), "No changes")
}

func TestPrintChangelogList(t *testing.T) {
	t.Run("lists one line per changelog", func(t *testing.T) {
		var buf bytes.Buffer

		PrintChangelogList(&buf, []models.Changelog{
			{ID: "c1", Version: "v2024-03-05", Title: "Changelog for a", RepoURL: "https://github.com/o/a"},
			{ID: "c2", Version: "v2024-03-04", Title: "Changelog for b", RepoURL: "https://github.com/o/b", Changes: []models.Change{{}}},
		})

		out := buf.String()
		assert.Contains(t, out, "2 changelog(s)")
		assert.Contains(t, out, "c1  v2024-03-05  Changelog for a  0 change(s), https://github.com/o/a")
		assert.Contains(t, out, "c2  v2024-03-04  Changelog for b  1 change(s), https://github.com/o/b")
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer

		PrintChangelogList(&buf, nil)

		assert.Contains(t, buf.String(), "No changelogs found")
	})
}
