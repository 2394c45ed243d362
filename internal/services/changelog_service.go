package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/thomas-vilte/matechangelog/internal/ai"
	"github.com/thomas-vilte/matechangelog/internal/changelog"
	"github.com/thomas-vilte/matechangelog/internal/config"
	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/metrics"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/ratelimit"
	"github.com/thomas-vilte/matechangelog/internal/services/cost"
	"github.com/thomas-vilte/matechangelog/internal/storage"
	"github.com/thomas-vilte/matechangelog/internal/vcs"
)

const dateLayout = "2006-01-02"

// GenerateRequest is the input of one generation run. Dates accept
// "2006-01-02" or RFC3339 and are optional.
type GenerateRequest struct {
	RepoURL  string `json:"repoUrl"`
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
}

// Waiter paces the pipeline: one pause before every classification and one
// after every batch of commits.
type Waiter interface {
	WaitBeforeNext(ctx context.Context) error
	WaitBetweenItems(ctx context.Context) error
}

type ChangelogService struct {
	commits    vcs.CommitSource
	classifier ai.ChangeClassifier
	repo       storage.ChangelogRepository
	assembler  *changelog.Assembler
	throttle   Waiter
	retry      *ratelimit.RetryPolicy
	metrics    *metrics.Metrics
	cost       *cost.Calculator
	config     *config.Config
}

type ChangelogOption func(*ChangelogService)

func WithThrottle(t Waiter) ChangelogOption {
	return func(s *ChangelogService) {
		s.throttle = t
	}
}

func WithRetryPolicy(p ratelimit.RetryPolicy) ChangelogOption {
	return func(s *ChangelogService) {
		s.retry = &p
	}
}

func WithAssembler(a *changelog.Assembler) ChangelogOption {
	return func(s *ChangelogService) {
		s.assembler = a
	}
}

func WithMetrics(m *metrics.Metrics) ChangelogOption {
	return func(s *ChangelogService) {
		s.metrics = m
	}
}

func WithChangelogConfig(cfg *config.Config) ChangelogOption {
	return func(s *ChangelogService) {
		s.config = cfg
	}
}

func NewChangelogService(
	commits vcs.CommitSource,
	classifier ai.ChangeClassifier,
	repo storage.ChangelogRepository,
	opts ...ChangelogOption,
) *ChangelogService {
	cfg := config.Default()
	s := &ChangelogService{
		commits:    commits,
		classifier: classifier,
		repo:       repo,
		assembler:  changelog.NewAssembler(),
		cost:       cost.NewCalculator(),
		config:     cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.throttle == nil {
		s.throttle = ratelimit.NewThrottle(s.config.RateLimit.RequestDelay(), s.config.RateLimit.BatchDelay())
	}
	if s.retry == nil {
		p := ratelimit.NewRetryPolicy(s.config.RateLimit.MaxRetries, s.config.RateLimit.BaseDelay())
		s.retry = &p
	}
	return s
}

// Generate runs the whole pipeline for one repository and persists the result.
// Commits are processed one at a time, with the configured pauses around every
// classification call.
func (s *ChangelogService) Generate(ctx context.Context, req GenerateRequest) (cl *models.Changelog, err error) {
	start := time.Now()
	processed := 0
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		s.metrics.RecordPipelineRun(status, processed, time.Since(start))
	}()

	repo, query, err := s.parseRequest(req)
	if err != nil {
		return nil, err
	}
	if s.classifier == nil {
		return nil, domainErrors.ErrAPIKeyMissing
	}

	ctx = logger.With(ctx, "repo", repo.String())
	log := logger.FromContext(ctx)
	log.Info("starting changelog generation")

	commits, err := s.listCommits(ctx, repo, query)
	if err != nil {
		return nil, err
	}
	log.Info("commits fetched", "commits_count", len(commits))

	batchSize := s.config.RateLimit.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}

	changes := make([]models.AnalyzedChange, 0, len(commits))
	for i, c := range commits {
		change, err := s.analyzeCommit(ctx, repo, c)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
		processed++

		if (i+1)%batchSize == 0 && i+1 < len(commits) {
			if err := s.throttle.WaitBetweenItems(ctx); err != nil {
				return nil, err
			}
		}
	}

	cl = s.assembler.Assemble(repo.URL(), repo.Name, changes)

	saveStart := time.Now()
	err = s.repo.Save(ctx, cl)
	s.metrics.RecordDbOperation("save", err, time.Since(saveStart))
	if err != nil {
		return nil, err
	}

	log.Info("changelog generated",
		"changelog_id", cl.ID,
		"changes_count", len(cl.Changes),
		"duration_ms", time.Since(start).Milliseconds())
	return cl, nil
}

func (s *ChangelogService) analyzeCommit(ctx context.Context, repo vcs.Repository, c models.Commit) (models.AnalyzedChange, error) {
	log := logger.FromContext(ctx).With("sha", c.ShortSHA())

	detail, err := s.commitDetail(ctx, repo, c)
	if err != nil {
		return models.AnalyzedChange{}, err
	}

	if err := s.throttle.WaitBeforeNext(ctx); err != nil {
		return models.AnalyzedChange{}, err
	}

	result := s.classifier.Classify(ctx, detail)
	if result.Degraded() && s.config.Pipeline.KeywordFallback {
		result.Category = changelog.DetectChangeType(detail.Message)
		log.Debug("classification degraded, using keyword fallback", "category", result.Category)
	}

	var in, out int
	if result.Usage != nil {
		in, out = result.Usage.InputTokens, result.Usage.OutputTokens
		usd := s.cost.EstimateCost(result.Usage)
		s.metrics.RecordAICost(result.Usage.Model, usd)
		log.Debug("commit classified",
			"category", result.Category,
			"total_tokens", result.Usage.TotalTokens,
			"estimated_cost_usd", usd)
	}
	s.metrics.RecordClassification(string(result.Source), string(result.Category), in, out)

	return models.AnalyzedChange{
		Description: detail.Title(),
		Category:    result.Category,
		Impact:      result.Impact,
		Author:      detail.Author,
		Date:        detail.Date.UTC().Format(time.RFC3339),
		SHA:         detail.SHA,
		WhatsNew:    result.TechnicalSummary,
	}, nil
}

// commitDetail completes a listed commit with its file stats and raw diff.
func (s *ChangelogService) commitDetail(ctx context.Context, repo vcs.Repository, c models.Commit) (models.Commit, error) {
	detail, err := s.fetchCommit(ctx, repo, c)
	if err != nil {
		return models.Commit{}, err
	}

	var diff string
	err = s.retry.Do(ctx, "get_diff", s.shouldRetry("get_diff"), func() error {
		var err error
		diff, err = s.commits.GetDiff(ctx, repo, c.SHA)
		return err
	})
	if err != nil {
		return models.Commit{}, err
	}
	detail.DiffText = diff
	return detail, nil
}

func (s *ChangelogService) listCommits(ctx context.Context, repo vcs.Repository, query vcs.CommitQuery) ([]models.Commit, error) {
	var commits []models.Commit
	err := s.retry.Do(ctx, "list_commits", s.shouldRetry("list_commits"), func() error {
		var err error
		commits, err = s.commits.ListCommits(ctx, repo, query)
		return err
	})
	return commits, err
}

func (s *ChangelogService) shouldRetry(op string) func(error) bool {
	return func(err error) bool {
		if errors.Is(err, domainErrors.ErrTransientNetwork) {
			s.metrics.RecordRetry(op)
			return true
		}
		return false
	}
}

func (s *ChangelogService) parseRequest(req GenerateRequest) (vcs.Repository, vcs.CommitQuery, error) {
	if strings.TrimSpace(req.RepoURL) == "" {
		return vcs.Repository{}, vcs.CommitQuery{}, domainErrors.ErrMissingField.WithContext("field", "repoUrl")
	}

	repo, err := vcs.ParseRepositoryURL(req.RepoURL)
	if err != nil {
		return vcs.Repository{}, vcs.CommitQuery{}, err
	}

	query := vcs.CommitQuery{PerPage: s.config.GitHub.PerPage}
	if query.Since, err = parseDate(req.FromDate, "fromDate", false); err != nil {
		return vcs.Repository{}, vcs.CommitQuery{}, err
	}
	if query.Until, err = parseDate(req.ToDate, "toDate", true); err != nil {
		return vcs.Repository{}, vcs.CommitQuery{}, err
	}
	if query.Since != nil && query.Until != nil && query.Since.After(*query.Until) {
		return vcs.Repository{}, vcs.CommitQuery{}, domainErrors.ErrInvalidDateRange.
			WithContext("fromDate", req.FromDate).
			WithContext("toDate", req.ToDate)
	}
	return repo, query, nil
}

// parseDate reads a request date. A bare day used as an upper bound covers the
// whole day.
func parseDate(value, field string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, domainErrors.ErrInvalidDate.
			WithError(err).
			WithContext("field", field).
			WithContext("value", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}

// List returns stored changelogs newest first. A repository filter is matched
// on its canonical URL.
func (s *ChangelogService) List(ctx context.Context, filter storage.ChangelogFilter) ([]models.Changelog, error) {
	if filter.RepoURL != "" {
		if repo, err := vcs.ParseRepositoryURL(filter.RepoURL); err == nil {
			filter.RepoURL = repo.URL()
		}
	}
	if filter.Type != "" {
		category := models.Category(strings.ToUpper(strings.TrimSpace(string(filter.Type))))
		if !category.Valid() {
			return nil, domainErrors.ErrInvalidCategory.WithContext("type", string(filter.Type))
		}
		filter.Type = category
	}

	start := time.Now()
	changelogs, err := s.repo.FindAll(ctx, filter)
	s.metrics.RecordDbOperation("find_all", err, time.Since(start))
	return changelogs, err
}

func (s *ChangelogService) Get(ctx context.Context, id string) (*models.Changelog, error) {
	start := time.Now()
	cl, err := s.repo.FindByID(ctx, id)
	s.metrics.RecordDbOperation("find_by_id", err, time.Since(start))
	return cl, err
}

func (s *ChangelogService) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.repo.Delete(ctx, id)
	s.metrics.RecordDbOperation("delete", err, time.Since(start))
	if err == nil {
		logger.Info(ctx, "changelog deleted", "changelog_id", id)
	}
	return err
}
