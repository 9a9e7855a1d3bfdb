package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invox/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *MockTextExtractor) Usage(ctx context.Context) (*port.UsageInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.UsageInfo), args.Error(1)
}
