package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"invox/internal/domain"
)

// MockWorkbookStore is a mock implementation of port.WorkbookStore.
type MockWorkbookStore struct {
	mock.Mock
}

func (m *MockWorkbookStore) Put(ctx context.Context, fileName string, data []byte) (*domain.Workbook, error) {
	args := m.Called(ctx, fileName, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workbook), args.Error(1)
}

func (m *MockWorkbookStore) Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, *domain.Workbook, error) {
	args := m.Called(ctx, id)
	var reader io.ReadCloser
	if args.Get(0) != nil {
		reader = args.Get(0).(io.ReadCloser)
	}
	var wb *domain.Workbook
	if args.Get(1) != nil {
		wb = args.Get(1).(*domain.Workbook)
	}
	return reader, wb, args.Error(2)
}
