package models

import (
	"strings"
	"time"
)

type (
	// FileChange is the per-file summary of a commit as reported by the host.
	FileChange struct {
		Name      string `json:"name"`
		Status    string `json:"status,omitempty"`
		Additions int    `json:"additions"`
		Deletions int    `json:"deletions"`
		Patch     string `json:"patch,omitempty"`
	}

	// Commit is a read-only view of one commit fetched from the source-control host.
	Commit struct {
		SHA       string       `json:"sha"`
		Message   string       `json:"message"`
		Author    string       `json:"author"`
		Date      time.Time    `json:"date"`
		Files     []FileChange `json:"files"`
		Additions int          `json:"additions"`
		Deletions int          `json:"deletions"`
		DiffText  string       `json:"codeChanges,omitempty"`
	}
)

// Title returns the first line of the commit message.
func (c Commit) Title() string {
	title, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(title)
}

// ShortSHA returns the abbreviated 7 character hash.
func (c Commit) ShortSHA() string {
	if len(c.SHA) > 7 {
		return c.SHA[:7]
	}
	return c.SHA
}

// FileNames returns the names of the changed files in order.
func (c Commit) FileNames() []string {
	names := make([]string, len(c.Files))
	for i, f := range c.Files {
		names[i] = f.Name
	}
	return names
}
