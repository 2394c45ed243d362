package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	var resp *github.Response
	if args.Get(1) != nil {
		resp = args.Get(1).(*github.Response)
	}
	if args.Get(0) == nil {
		return nil, resp, args.Error(2)
	}
	return args.Get(0).([]*github.RepositoryCommit), resp, args.Error(2)
}

func (m *MockRepoService) GetCommit(ctx context.Context, owner, repo, sha string, opts *github.ListOptions) (*github.RepositoryCommit, *github.Response, error) {
	args := m.Called(ctx, owner, repo, sha, opts)
	var resp *github.Response
	if args.Get(1) != nil {
		resp = args.Get(1).(*github.Response)
	}
	if args.Get(0) == nil {
		return nil, resp, args.Error(2)
	}
	return args.Get(0).(*github.RepositoryCommit), resp, args.Error(2)
}

func (m *MockRepoService) GetCommitRaw(ctx context.Context, owner, repo, sha string, opts github.RawOptions) (string, *github.Response, error) {
	args := m.Called(ctx, owner, repo, sha, opts)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*github.Response), args.Error(2)
}
