package ai

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matechangelog/internal/models"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (*Completion, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Completion), args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, commit models.Commit) models.Classification {
	args := m.Called(ctx, commit)
	return args.Get(0).(models.Classification)
}
