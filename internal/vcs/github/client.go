package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/vcs"
	"golang.org/x/oauth2"
)

var _ vcs.CommitSource = (*GitHubClient)(nil)

const (
	// MaxPerPage is the largest page GitHub serves for commit listings.
	MaxPerPage = 100

	// NoCodeChanges is returned by GetDiff when the commit touches no files.
	NoCodeChanges = "No code changes available"

	day = 24 * time.Hour
)

type RepositoriesService interface {
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	GetCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) (*github.RepositoryCommit, *github.Response, error)
	GetCommitRaw(ctx context.Context, owner, repo, sha string, opts github.RawOptions) (string, *github.Response, error)
}

type GitHubClient struct {
	repoService RepositoriesService
}

func NewGitHubClient(token string) *GitHubClient {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	return &GitHubClient{repoService: client.Repositories}
}

func NewGitHubClientWithServices(repoService RepositoriesService) *GitHubClient {
	return &GitHubClient{repoService: repoService}
}

func (ghc *GitHubClient) ListCommits(ctx context.Context, repo vcs.Repository, query vcs.CommitQuery) ([]models.Commit, error) {
	log := logger.FromContext(ctx)

	perPage := query.PerPage
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	opts := &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	// GitHub's since/until filters are unreliable for windows inside one day,
	// so those are filtered here on the calendar day instead.
	singleDay := isSingleDay(query.Since, query.Until)
	if !singleDay {
		if query.Since != nil {
			opts.Since = query.Since.UTC()
		}
		if query.Until != nil {
			opts.Until = query.Until.UTC()
		}
	}

	log.Debug("listing github commits",
		"repo", repo.String(),
		"per_page", perPage,
		"single_day", singleDay)

	ghCommits, resp, err := ghc.repoService.ListCommits(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		log.Error("failed to list github commits",
			"error", err,
			"repo", repo.String())
		return nil, mapError(err, resp, "list commits", repo)
	}

	commits := make([]models.Commit, 0, len(ghCommits))
	for _, c := range ghCommits {
		commit := toCommit(c)
		if singleDay && !sameDay(commit.Date, *query.Since) {
			continue
		}
		commits = append(commits, commit)
	}

	log.Debug("github commits listed",
		"repo", repo.String(),
		"returned", len(ghCommits),
		"count", len(commits))

	return commits, nil
}

func (ghc *GitHubClient) GetCommit(ctx context.Context, repo vcs.Repository, sha string) (models.Commit, error) {
	c, resp, err := ghc.repoService.GetCommit(ctx, repo.Owner, repo.Name, sha, nil)
	if err != nil {
		return models.Commit{}, mapError(err, resp, "get commit", repo).WithContext("sha", sha)
	}

	commit := toCommit(c)
	logger.FromContext(ctx).Debug("github commit fetched",
		"sha", commit.ShortSHA(),
		"files", len(commit.Files),
		"additions", commit.Additions,
		"deletions", commit.Deletions)

	return commit, nil
}

func (ghc *GitHubClient) GetDiff(ctx context.Context, repo vcs.Repository, sha string) (string, error) {
	diff, resp, err := ghc.repoService.GetCommitRaw(ctx, repo.Owner, repo.Name, sha, github.RawOptions{Type: github.Diff})
	if err != nil {
		return "", mapError(err, resp, "get commit diff", repo).WithContext("sha", sha)
	}

	if strings.TrimSpace(diff) == "" {
		return NoCodeChanges, nil
	}
	return diff, nil
}

func toCommit(c *github.RepositoryCommit) models.Commit {
	author := c.GetCommit().GetAuthor()
	name := author.GetName()
	if name == "" {
		name = c.GetAuthor().GetLogin()
	}
	if name == "" {
		name = "Unknown"
	}

	files := make([]models.FileChange, 0, len(c.Files))
	for _, f := range c.Files {
		files = append(files, models.FileChange{
			Name:      f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Patch:     f.GetPatch(),
		})
	}

	return models.Commit{
		SHA:       c.GetSHA(),
		Message:   c.GetCommit().GetMessage(),
		Author:    name,
		Date:      author.GetDate().Time,
		Files:     files,
		Additions: c.GetStats().GetAdditions(),
		Deletions: c.GetStats().GetDeletions(),
	}
}

func mapError(err error, resp *github.Response, operation string, repo vcs.Repository) *domainErrors.AppError {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("operation", operation).
			WithContext("repo", repo.String())
	}

	if resp == nil || resp.Response == nil {
		return domainErrors.ErrTransientNetwork.
			WithError(err).
			WithContext("operation", operation).
			WithContext("repo", repo.String())
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domainErrors.ErrRepositoryNotFound.
			WithError(err).
			WithContext("operation", operation).
			WithContext("repo", repo.String())
	case resp.StatusCode == http.StatusUnauthorized:
		return domainErrors.ErrGitHubTokenInvalid.
			WithError(err).
			WithContext("operation", operation)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusForbidden:
		return domainErrors.ErrGitHubRateLimit.
			WithError(err).
			WithContext("retry_after", resp.Header.Get("Retry-After")).
			WithContext("operation", operation)
	case resp.StatusCode >= http.StatusInternalServerError:
		return domainErrors.ErrTransientNetwork.
			WithError(err).
			WithContext("status", resp.StatusCode).
			WithContext("operation", operation)
	default:
		return domainErrors.ErrUpstreamFetch.
			WithError(fmt.Errorf("unexpected status %d: %w", resp.StatusCode, err)).
			WithContext("operation", operation).
			WithContext("repo", repo.String())
	}
}

func isSingleDay(since, until *time.Time) bool {
	if since == nil || until == nil {
		return false
	}
	return sameDay(*since, *until)
}

func sameDay(a, b time.Time) bool {
	return a.UTC().Truncate(day).Equal(b.UTC().Truncate(day))
}
