package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/thomas-vilte/matechangelog/internal/models"
)

// PromptData holds the parameters for template rendering
type PromptData struct {
	Message    string
	FileCount  int
	Additions  int
	Deletions  int
	Diff       string
	Categories string
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const classificationPromptTemplate = `Analyze this code change and provide details in JSON format:

  Commit Message: {{.Message}}
  Files changed: {{.FileCount}}
  Additions: {{.Additions}}
  Deletions: {{.Deletions}}

  Code Changes Summary:
  {{.Diff}}

  Return only a JSON object with these fields:
  {
    "category": one of [{{.Categories}}],
    "technicalSummary": "detailed technical description of what changed in the code, based on the actual code changes",
    "impact": "analysis of how these changes affect the system and developers",
    "breaking": boolean,
    "securityRelated": boolean
  }`

// BuildClassificationPrompt renders the impact analysis prompt for one commit.
func BuildClassificationPrompt(commit models.Commit) (string, error) {
	categories := make([]string, 0, len(models.Categories()))
	for _, c := range models.Categories() {
		categories = append(categories, string(c))
	}

	data := PromptData{
		Message:    commit.Message,
		FileCount:  len(commit.Files),
		Additions:  commit.Additions,
		Deletions:  commit.Deletions,
		Diff:       FilterDiff(commit.DiffText),
		Categories: strings.Join(categories, ", "),
	}
	return RenderPrompt("classification", classificationPromptTemplate, data)
}
