package commits

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/thomas-vilte/matechangelog/internal/services"
)

type MockCommitReporter struct {
	mock.Mock
}

func (m *MockCommitReporter) Commits(ctx context.Context, req services.GenerateRequest) (*services.CommitReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CommitReport), args.Error(1)
}
