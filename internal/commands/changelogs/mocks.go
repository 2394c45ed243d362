package changelogs

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/services"
	"github.com/thomas-vilte/matechangelog/internal/storage"
)

type MockChangelogService struct {
	mock.Mock
}

func (m *MockChangelogService) Generate(ctx context.Context, req services.GenerateRequest) (*models.Changelog, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Changelog), args.Error(1)
}

func (m *MockChangelogService) List(ctx context.Context, filter storage.ChangelogFilter) ([]models.Changelog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Changelog), args.Error(1)
}

func (m *MockChangelogService) Get(ctx context.Context, id string) (*models.Changelog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Changelog), args.Error(1)
}

func (m *MockChangelogService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
