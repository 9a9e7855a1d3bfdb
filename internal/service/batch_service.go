package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"invox/internal/config"
	"invox/internal/domain"
	"invox/internal/excel"
	"invox/internal/port"
)

// Upload is one incoming file in a batch request.
type Upload struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// BatchService runs a whole batch: save uploads, process, build the
// workbook, store it, and fire the optional notification hook.
type BatchService interface {
	Run(ctx context.Context, uploads []Upload) (*domain.BatchSummary, error)
}

type batchService struct {
	processor *Processor
	store     port.WorkbookStore
	email     port.EmailSender
	batchCfg  config.BatchConfig
	emailCfg  config.EmailConfig
}

// NewBatchService creates a BatchService. email may be nil when
// notifications are not configured.
func NewBatchService(
	processor *Processor,
	store port.WorkbookStore,
	email port.EmailSender,
	batchCfg config.BatchConfig,
	emailCfg config.EmailConfig,
) BatchService {
	return &batchService{
		processor: processor,
		store:     store,
		email:     email,
		batchCfg:  batchCfg,
		emailCfg:  emailCfg,
	}
}

func (s *batchService) Run(ctx context.Context, uploads []Upload) (*domain.BatchSummary, error) {
	if len(uploads) == 0 {
		return nil, domain.ErrNoFiles
	}
	if s.batchCfg.MaxFiles > 0 && len(uploads) > s.batchCfg.MaxFiles {
		return nil, fmt.Errorf("%w: %d files, limit %d", domain.ErrTooManyFiles, len(uploads), s.batchCfg.MaxFiles)
	}

	batchID := uuid.New()
	startedAt := time.Now().UTC()

	tempDir, err := os.MkdirTemp("", "invox-batch-")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	paths, err := s.saveUploads(tempDir, uploads)
	if err != nil {
		return nil, err
	}

	results, failures := s.process(ctx, paths)

	log.Printf("batchService: batch %s processed %d/%d files", batchID, len(results), len(uploads))

	workbookName := fmt.Sprintf("invoices_%s.xlsx", startedAt.Format("20060102_150405"))
	data, err := excel.BuildWorkbook(results)
	if err != nil {
		return nil, err
	}

	wb, err := s.store.Put(ctx, workbookName, data)
	if err != nil {
		return nil, fmt.Errorf("storing workbook: %w", err)
	}

	summary := &domain.BatchSummary{
		BatchID:    batchID,
		Requested:  len(uploads),
		Succeeded:  len(results),
		Failed:     len(failures),
		Files:      fileResults(results, failures),
		WorkbookID: wb.ID,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}

	// Notification is best-effort: the workbook is already stored and
	// downloadable, so a send failure only gets logged.
	s.notify(ctx, summary)

	return summary, nil
}

// process picks the processing mode by batch size: one file runs inline,
// small batches run in parallel, large batches run chunked.
func (s *batchService) process(ctx context.Context, paths []string) ([]domain.ProcessingResult, map[string]error) {
	switch {
	case len(paths) == 1:
		result, err := s.processor.ProcessFile(ctx, paths[0])
		if err != nil {
			log.Printf("batchService: skipping %s: %v", filepath.Base(paths[0]), err)
			return nil, map[string]error{filepath.Base(paths[0]): err}
		}
		return []domain.ProcessingResult{*result}, nil
	case len(paths) <= s.batchCfg.ChunkSize:
		return s.processor.ProcessBatch(ctx, paths)
	default:
		return s.processor.ProcessChunked(ctx, paths)
	}
}

// saveUploads validates and writes incoming files into dir. Validation is
// strict: one bad file rejects the whole request before any paid API call.
// Duplicate base names get an index prefix so no upload overwrites another.
func (s *batchService) saveUploads(dir string, uploads []Upload) ([]string, error) {
	maxBytes := s.batchCfg.MaxFileSizeMB * 1024 * 1024
	paths := make([]string, 0, len(uploads))
	seen := make(map[string]struct{}, len(uploads))

	for i, u := range uploads {
		if !strings.EqualFold(filepath.Ext(u.Name), ".pdf") {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotPDF, u.Name)
		}
		if maxBytes > 0 && u.Size > maxBytes {
			return nil, fmt.Errorf("%w: %s (%d bytes)", domain.ErrFileTooLarge, u.Name, u.Size)
		}

		name := filepath.Base(u.Name)
		if _, dup := seen[name]; dup {
			name = fmt.Sprintf("%d_%s", i+1, name)
		}
		seen[name] = struct{}{}

		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		if _, err := io.Copy(f, u.Reader); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("saving %s: %w", u.Name, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("closing %s: %w", u.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (s *batchService) notify(ctx context.Context, summary *domain.BatchSummary) {
	if s.email == nil || s.emailCfg.NotifyAddress == "" {
		return
	}
	msg := port.EmailMessage{
		To:      s.emailCfg.NotifyAddress,
		Subject: fmt.Sprintf("Invoice batch finished: %d/%d files processed", summary.Succeeded, summary.Requested),
		TextBody: fmt.Sprintf(
			"Batch %s finished at %s.\n\nProcessed: %d\nFailed: %d\nWorkbook: %s\n",
			summary.BatchID, summary.FinishedAt.Format(time.RFC3339),
			summary.Succeeded, summary.Failed, summary.WorkbookID,
		),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		log.Printf("batchService: notification email failed: %v", err)
	}
}

func fileResults(results []domain.ProcessingResult, failures map[string]error) []domain.FileResult {
	out := make([]domain.FileResult, 0, len(results)+len(failures))
	for i := range results {
		out = append(out, domain.FileResult{
			FileName: results[i].FileName,
			Status:   domain.FileStatusProcessed,
			SchemaOK: results[i].SchemaOK,
		})
	}
	for name, err := range failures {
		out = append(out, domain.FileResult{
			FileName: name,
			Status:   domain.FileStatusFailed,
			Error:    err.Error(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out
}
