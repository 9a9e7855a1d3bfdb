package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invox/internal/domain"
	"invox/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) Run(ctx context.Context, uploads []service.Upload) (*domain.BatchSummary, error) {
	args := m.Called(ctx, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchSummary), args.Error(1)
}
