package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/storage"
	"github.com/thomas-vilte/matechangelog/internal/vcs"
)

type (
	MockCommitSource struct {
		mock.Mock
	}

	MockChangelogRepository struct {
		mock.Mock
	}
)

func (m *MockCommitSource) ListCommits(ctx context.Context, repo vcs.Repository, query vcs.CommitQuery) ([]models.Commit, error) {
	args := m.Called(ctx, repo, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Commit), args.Error(1)
}

func (m *MockCommitSource) GetCommit(ctx context.Context, repo vcs.Repository, sha string) (models.Commit, error) {
	args := m.Called(ctx, repo, sha)
	return args.Get(0).(models.Commit), args.Error(1)
}

func (m *MockCommitSource) GetDiff(ctx context.Context, repo vcs.Repository, sha string) (string, error) {
	args := m.Called(ctx, repo, sha)
	return args.String(0), args.Error(1)
}

func (m *MockChangelogRepository) Save(ctx context.Context, changelog *models.Changelog) error {
	args := m.Called(ctx, changelog)
	return args.Error(0)
}

func (m *MockChangelogRepository) FindAll(ctx context.Context, filter storage.ChangelogFilter) ([]models.Changelog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Changelog), args.Error(1)
}

func (m *MockChangelogRepository) FindByID(ctx context.Context, id string) (*models.Changelog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Changelog), args.Error(1)
}

func (m *MockChangelogRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
