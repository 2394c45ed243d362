package ai

import (
	"strings"

	"github.com/thomas-vilte/matechangelog/internal/regex"
)

const (
	// NoTextChanges replaces diffs that are empty or binary.
	NoTextChanges = "No text changes available"

	maxDiffLines = 50
)

// FilterDiff reduces a unified diff to the changed lines worth sending to a model.
func FilterDiff(diff string) string {
	if strings.TrimSpace(diff) == "" || strings.Contains(diff, "Binary files") {
		return NoTextChanges
	}

	kept := make([]string, 0, maxDiffLines)
	for _, line := range strings.Split(diff, "\n") {
		if len(kept) == maxDiffLines {
			break
		}
		if !strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "-") {
			continue
		}
		if regex.DiffFileHeader.MatchString(line) {
			continue
		}

		content := strings.TrimSpace(line[1:])
		if content == "" || regex.EmptyComment.MatchString(content) || regex.LogStatement.MatchString(content) {
			continue
		}
		kept = append(kept, content)
	}

	return strings.Join(kept, "\n")
}
