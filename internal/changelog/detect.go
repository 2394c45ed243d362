package changelog

import (
	"strings"

	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/regex"
)

var conventionalTypes = map[string]models.Category{
	"feat":     models.CategoryFeature,
	"fix":      models.CategoryBugfix,
	"docs":     models.CategoryDocs,
	"perf":     models.CategoryPerformance,
	"refactor": models.CategoryRefactor,
}

// DetectChangeType guesses a category from the commit message alone.
func DetectChangeType(message string) models.Category {
	if regex.BreakingChange.MatchString(message) {
		return models.CategoryBreaking
	}

	title := strings.TrimSpace(strings.SplitN(message, "\n", 2)[0])
	if m := regex.ConventionalCommit.FindStringSubmatch(strings.ToLower(title)); m != nil {
		if m[4] == "!" {
			return models.CategoryBreaking
		}
		if c, ok := conventionalTypes[m[1]]; ok {
			return c
		}
	}

	lower := strings.ToLower(message)
	for _, prefix := range []string{"feat", "fix", "docs", "perf", "refactor"} {
		if strings.Contains(lower, prefix+":") {
			return conventionalTypes[prefix]
		}
	}
	return models.CategoryOther
}
