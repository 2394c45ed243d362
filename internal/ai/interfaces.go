package ai

import (
	"context"

	"github.com/thomas-vilte/matechangelog/internal/models"
)

// Completion is the raw text a model produced for one prompt.
type Completion struct {
	Text  string
	Usage *models.TokenUsage
}

// Completer sends a single prompt to a generative model.
type Completer interface {
	Complete(ctx context.Context, prompt string) (*Completion, error)
}

// ChangeClassifier derives category, impact and summary for one commit.
// Implementations never fail; they degrade to models.DefaultClassification.
type ChangeClassifier interface {
	Classify(ctx context.Context, commit models.Commit) models.Classification
}
