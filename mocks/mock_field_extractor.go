package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invox/internal/port"
)

// MockFieldExtractor is a mock implementation of port.FieldExtractor.
type MockFieldExtractor struct {
	mock.Mock
}

func (m *MockFieldExtractor) Extract(ctx context.Context, structuredText string) (*port.Extraction, error) {
	args := m.Called(ctx, structuredText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Extraction), args.Error(1)
}
