// Package local implements the workbook store on the local filesystem.
// Workbooks are kept only as download artifacts; nothing else is persisted.
package local

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"invox/internal/domain"
	"invox/internal/port"
)

// Store keeps workbooks as uuid-keyed files under a data directory, with a
// sidecar metadata file per workbook.
type Store struct {
	dir string
}

// NewStore creates the workbook directory if needed and returns a Store.
func NewStore(dataDir string) (*Store, error) {
	dir := filepath.Join(dataDir, "workbooks")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating workbook dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

var _ port.WorkbookStore = (*Store)(nil)

func (s *Store) Put(_ context.Context, fileName string, data []byte) (*domain.Workbook, error) {
	wb := &domain.Workbook{
		ID:        uuid.New(),
		FileName:  fileName,
		Size:      int64(len(data)),
		CreatedAt: time.Now().UTC(),
	}

	if err := os.WriteFile(s.workbookPath(wb.ID), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	meta, err := json.Marshal(wb)
	if err != nil {
		return nil, fmt.Errorf("marshaling workbook metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(wb.ID), meta, 0o644); err != nil {
		return nil, fmt.Errorf("writing workbook metadata: %w", err)
	}
	return wb, nil
}

func (s *Store) Open(_ context.Context, id uuid.UUID) (io.ReadCloser, *domain.Workbook, error) {
	meta, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.ErrWorkbookNotFound
		}
		return nil, nil, fmt.Errorf("reading workbook metadata: %w", err)
	}

	var wb domain.Workbook
	if err := json.Unmarshal(meta, &wb); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling workbook metadata: %w", err)
	}

	f, err := os.Open(s.workbookPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, domain.ErrWorkbookNotFound
		}
		return nil, nil, fmt.Errorf("opening workbook: %w", err)
	}
	return f, &wb, nil
}

func (s *Store) workbookPath(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+".xlsx")
}

func (s *Store) metaPath(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+".json")
}
