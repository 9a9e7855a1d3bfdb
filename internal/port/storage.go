package port

import (
	"context"
	"io"

	"github.com/google/uuid"

	"invox/internal/domain"
)

// WorkbookStore holds generated Excel workbooks for download.
type WorkbookStore interface {
	// Put stores workbook bytes under a fresh ID and returns its metadata.
	Put(ctx context.Context, fileName string, data []byte) (*domain.Workbook, error)
	// Open returns a reader over a stored workbook.
	Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, *domain.Workbook, error)
}

// UploadInput is the DTO for object storage uploads.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput reports the stored object's location.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage abstracts a remote blob store used to archive workbooks and
// restore them when the local copy is gone.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, bucket, key string) ([]byte, error)
}
