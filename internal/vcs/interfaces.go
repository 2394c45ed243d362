package vcs

import (
	"context"
	"time"

	"github.com/thomas-vilte/matechangelog/internal/models"
)

// CommitQuery narrows a commit listing. Nil bounds are open.
type CommitQuery struct {
	Since   *time.Time
	Until   *time.Time
	PerPage int
}

// CommitSource defines the source-control host operations the changelog pipeline needs.
type CommitSource interface {
	// ListCommits returns the commits of a repository newest-first, as the host orders them.
	ListCommits(ctx context.Context, repo Repository, query CommitQuery) ([]models.Commit, error)
	// GetCommit returns a commit with its per-file stats and patches.
	GetCommit(ctx context.Context, repo Repository, sha string) (models.Commit, error)
	// GetDiff returns the raw unified diff of one commit.
	GetDiff(ctx context.Context, repo Repository, sha string) (string, error)
}
