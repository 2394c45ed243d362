package di

import (
	"context"
	"sync"

	"github.com/thomas-vilte/matechangelog/internal/ai"
	"github.com/thomas-vilte/matechangelog/internal/ai/gemini"
	"github.com/thomas-vilte/matechangelog/internal/config"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/metrics"
	"github.com/thomas-vilte/matechangelog/internal/ratelimit"
	"github.com/thomas-vilte/matechangelog/internal/services"
	"github.com/thomas-vilte/matechangelog/internal/storage"
	"github.com/thomas-vilte/matechangelog/internal/vcs"
	"github.com/thomas-vilte/matechangelog/internal/vcs/github"
	"gorm.io/gorm"
)

// Container builds the application's collaborators on first use and owns
// the resources that must be released.
type Container struct {
	config *config.Config

	mu           sync.Mutex
	db           *gorm.DB
	metrics      *metrics.Metrics
	commitSource vcs.CommitSource
	classifier   ai.ChangeClassifier
	service      *services.ChangelogService
}

func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

func (c *Container) GetConfig() *config.Config {
	return c.config
}

// SetCommitSource replaces the GitHub client, mainly for tests.
func (c *Container) SetCommitSource(source vcs.CommitSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.commitSource = source
}

// SetClassifier replaces the Gemini backed classifier, mainly for tests.
func (c *Container) SetClassifier(classifier ai.ChangeClassifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.classifier = classifier
}

func (c *Container) GetMetrics() *metrics.Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.metrics == nil {
		c.metrics = metrics.NewMetrics()
	}
	return c.metrics
}

func (c *Container) getDB() (*gorm.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	db, err := storage.Open(storage.Config{
		Path:     c.config.Database.Path,
		LogLevel: storage.ParseLogLevel(c.config.Database.LogLevel),
	})
	if err != nil {
		return nil, err
	}
	c.db = db
	return db, nil
}

// getClassifier returns nil when no AI key is configured; generation then
// fails while the read paths keep working.
func (c *Container) getClassifier(ctx context.Context) (ai.ChangeClassifier, error) {
	if c.classifier != nil {
		return c.classifier, nil
	}
	if c.config.AI.APIKey == "" {
		logger.Debug(ctx, "no AI key configured, changelog generation disabled")
		return nil, nil
	}
	if !config.IsKnownModel(config.AIGemini, c.config.AI.Model) {
		logger.Warn(ctx, "unknown gemini model, using it anyway", "model", c.config.AI.Model)
	}

	completer, err := gemini.NewGeminiCompleter(ctx, c.config.AI.APIKey, string(c.config.AI.Model))
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "AI classifier ready",
		"provider", completer.GetProviderName(),
		"model", completer.GetModelName())
	c.classifier = ai.NewClassifier(completer)
	return c.classifier, nil
}

// GetChangelogService returns the pipeline service (lazy initialization).
func (c *Container) GetChangelogService(ctx context.Context) (*services.ChangelogService, error) {
	m := c.GetMetrics()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.service != nil {
		return c.service, nil
	}

	db, err := c.getDB()
	if err != nil {
		return nil, err
	}

	if c.commitSource == nil {
		c.commitSource = github.NewGitHubClient(c.config.GitHub.Token)
	}

	classifier, err := c.getClassifier(ctx)
	if err != nil {
		return nil, err
	}

	rl := c.config.RateLimit
	c.service = services.NewChangelogService(
		c.commitSource,
		classifier,
		storage.NewChangelogRepository(db),
		services.WithChangelogConfig(c.config),
		services.WithThrottle(ratelimit.NewThrottle(rl.RequestDelay(), rl.BatchDelay())),
		services.WithRetryPolicy(ratelimit.NewRetryPolicy(rl.MaxRetries, rl.BaseDelay())),
		services.WithMetrics(m),
	)
	return c.service, nil
}

// Close releases the database handle if one was opened.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := storage.Close(c.db)
	c.db = nil
	c.service = nil
	return err
}
