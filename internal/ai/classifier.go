package ai

import (
	"context"
	"time"

	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/models"
)

var _ ChangeClassifier = (*Classifier)(nil)

// Classifier classifies commits through a Completer, degrading to the default
// classification whenever the model call fails.
type Classifier struct {
	completer Completer
	now       func() time.Time
}

func NewClassifier(completer Completer) *Classifier {
	return &Classifier{completer: completer, now: time.Now}
}

func (c *Classifier) Classify(ctx context.Context, commit models.Commit) models.Classification {
	log := logger.FromContext(ctx).With("sha", commit.ShortSHA())

	prompt, err := BuildClassificationPrompt(commit)
	if err != nil {
		log.Warn("failed to build classification prompt", "error", err)
		return models.DefaultClassification()
	}

	start := c.now()
	completion, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		log.Warn("classification failed, using default",
			"error", err,
			"duration_ms", c.now().Sub(start).Milliseconds())
		return models.DefaultClassification()
	}
	if completion == nil {
		log.Warn("classification returned no completion, using default")
		return models.DefaultClassification()
	}

	result := ParseClassification(completion.Text)
	result.Usage = completion.Usage

	args := []any{
		"category", result.Category,
		"source", result.Source,
		"breaking", result.Breaking,
		"duration_ms", c.now().Sub(start).Milliseconds(),
	}
	if completion.Usage != nil {
		args = append(args, "total_tokens", completion.Usage.TotalTokens)
	}
	log.Debug("commit classified", args...)

	return result
}
