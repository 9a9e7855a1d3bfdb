// Package archive layers an S3 archive over another workbook store.
// Every stored workbook is also uploaded, and reads fall back to the archive
// when the local copy is gone, so downloads survive data-dir loss and
// restarts on ephemeral disks.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"

	"invox/internal/domain"
	"invox/internal/port"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Store wraps a primary WorkbookStore with an ObjectStorage archive.
type Store struct {
	primary port.WorkbookStore
	objects port.ObjectStorage
	bucket  string
}

// NewStore creates an archive-backed workbook store.
func NewStore(primary port.WorkbookStore, objects port.ObjectStorage, bucket string) *Store {
	return &Store{primary: primary, objects: objects, bucket: bucket}
}

var _ port.WorkbookStore = (*Store)(nil)

// Put stores the workbook in the primary store and archives it. Archiving is
// best-effort: the workbook is already stored and downloadable, so an archive
// failure only gets logged.
func (s *Store) Put(ctx context.Context, fileName string, data []byte) (*domain.Workbook, error) {
	wb, err := s.primary.Put(ctx, fileName, data)
	if err != nil {
		return nil, err
	}
	s.archive(ctx, wb, data)
	return wb, nil
}

// Open reads from the primary store, falling back to the archive when the
// workbook is not there.
func (s *Store) Open(ctx context.Context, id uuid.UUID) (io.ReadCloser, *domain.Workbook, error) {
	reader, wb, err := s.primary.Open(ctx, id)
	if err == nil || !errors.Is(err, domain.ErrWorkbookNotFound) {
		return reader, wb, err
	}
	return s.restore(ctx, id)
}

func (s *Store) archive(ctx context.Context, wb *domain.Workbook, data []byte) {
	meta, err := json.Marshal(wb)
	if err != nil {
		log.Printf("archive: marshaling workbook %s metadata: %v", wb.ID, err)
		return
	}

	uploads := []struct {
		key         string
		body        []byte
		contentType string
	}{
		{metaKey(wb.ID), meta, "application/json"},
		{dataKey(wb.ID), data, xlsxContentType},
	}
	for _, u := range uploads {
		_, err := s.objects.Upload(ctx, port.UploadInput{
			Bucket:      s.bucket,
			Key:         u.key,
			Body:        bytes.NewReader(u.body),
			ContentType: u.contentType,
			Size:        int64(len(u.body)),
		})
		if err != nil {
			log.Printf("archive: uploading %s: %v", u.key, err)
			return
		}
	}
	log.Printf("archive: workbook %s archived to s3://%s/%s", wb.ID, s.bucket, dataKey(wb.ID))
}

func (s *Store) restore(ctx context.Context, id uuid.UUID) (io.ReadCloser, *domain.Workbook, error) {
	meta, err := s.objects.Download(ctx, s.bucket, metaKey(id))
	if err != nil {
		log.Printf("archive: workbook %s not in archive: %v", id, err)
		return nil, nil, domain.ErrWorkbookNotFound
	}

	var wb domain.Workbook
	if err := json.Unmarshal(meta, &wb); err != nil {
		return nil, nil, fmt.Errorf("unmarshaling archived workbook metadata: %w", err)
	}

	data, err := s.objects.Download(ctx, s.bucket, dataKey(id))
	if err != nil {
		log.Printf("archive: workbook %s data missing from archive: %v", id, err)
		return nil, nil, domain.ErrWorkbookNotFound
	}

	log.Printf("archive: restored workbook %s from s3://%s", id, s.bucket)
	return io.NopCloser(bytes.NewReader(data)), &wb, nil
}

func metaKey(id uuid.UUID) string {
	return fmt.Sprintf("workbooks/%s/meta.json", id)
}

func dataKey(id uuid.UUID) string {
	return fmt.Sprintf("workbooks/%s/workbook.xlsx", id)
}
