package storage_test

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invox/internal/domain"
	"invox/internal/storage/local"
)

func TestLocalStore_PutAndOpen(t *testing.T) {
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)

	data := []byte("fake xlsx bytes")
	wb, err := store.Put(context.Background(), "invoices_20260101_120000.xlsx", data)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, wb.ID)
	assert.Equal(t, "invoices_20260101_120000.xlsx", wb.FileName)
	assert.Equal(t, int64(len(data)), wb.Size)
	assert.False(t, wb.CreatedAt.IsZero())

	reader, got, err := store.Open(context.Background(), wb.ID)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	assert.Equal(t, wb.ID, got.ID)
	assert.Equal(t, wb.FileName, got.FileName)

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, data, content)
}

func TestLocalStore_Open_NotFound(t *testing.T) {
	store, err := local.NewStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Open(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrWorkbookNotFound)
}
