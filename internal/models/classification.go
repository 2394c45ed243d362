package models

import "strings"

// Category is the kind of change an AI classification assigns to a commit.
type Category string

const (
	CategoryFeature     Category = "FEATURE"
	CategoryBugfix      Category = "BUGFIX"
	CategoryEnhancement Category = "ENHANCEMENT"
	CategoryRefactor    Category = "REFACTOR"
	CategoryDocs        Category = "DOCS"
	CategoryBreaking    Category = "BREAKING"
	CategorySecurity    Category = "SECURITY"
	CategoryPerformance Category = "PERFORMANCE"
	CategoryDependency  Category = "DEPENDENCY"
	CategoryOther       Category = "OTHER"
)

// DefaultImpact is used whenever the model gives no impact analysis.
const DefaultImpact = "No impact analysis available"

// Categories returns every valid category in a stable order.
func Categories() []Category {
	return []Category{
		CategoryFeature,
		CategoryBugfix,
		CategoryEnhancement,
		CategoryRefactor,
		CategoryDocs,
		CategoryBreaking,
		CategorySecurity,
		CategoryPerformance,
		CategoryDependency,
		CategoryOther,
	}
}

// ParseCategory normalizes s into a Category. Unknown values become CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ClassificationSource records which parsing tier produced a Classification.
type ClassificationSource string

const (
	SourceJSON    ClassificationSource = "json"
	SourceRegex   ClassificationSource = "regex"
	SourceDefault ClassificationSource = "default"
)

// Classification is the AI-derived category/impact/summary for one commit.
// It is never persisted on its own; it is folded into a Change.
type Classification struct {
	Category         Category             `json:"category"`
	TechnicalSummary string               `json:"technicalSummary"`
	Impact           string               `json:"impact"`
	Breaking         bool                 `json:"breaking"`
	SecurityRelated  bool                 `json:"securityRelated"`
	Source           ClassificationSource `json:"-"`
	Usage            *TokenUsage          `json:"-"`
}

func DefaultClassification() Classification {
	return Classification{
		Category:         CategoryOther,
		TechnicalSummary: "",
		Impact:           DefaultImpact,
		Breaking:         false,
		SecurityRelated:  false,
		Source:           SourceDefault,
	}
}

// Degraded reports whether the classification fell back to defaults.
func (c Classification) Degraded() bool {
	return c.Source == SourceDefault
}

// AnalyzedChange is one classified commit, the unit the changelog assembler consumes.
type AnalyzedChange struct {
	Description string
	Category    Category
	Impact      string
	Author      string
	Date        string
	SHA         string
	WhatsNew    string
}
