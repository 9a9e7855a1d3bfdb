package service

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"invox/internal/config"
	"invox/internal/domain"
	"invox/internal/port"
)

// Processor runs the per-file OCR -> extraction pipeline and fans it out
// over a bounded worker pool for batches.
type Processor struct {
	ocr       port.TextExtractor
	extractor port.FieldExtractor
	cfg       config.BatchConfig
}

// NewProcessor creates a Processor.
func NewProcessor(ocr port.TextExtractor, extractor port.FieldExtractor, cfg config.BatchConfig) *Processor {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 3
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 5
	}
	return &Processor{ocr: ocr, extractor: extractor, cfg: cfg}
}

// ProcessFile runs one PDF through OCR and extraction. Any failure along the
// way is returned; the caller decides whether to skip or abort.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*domain.ProcessingResult, error) {
	name := filepath.Base(path)

	text, err := p.ocr.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("ocr %s: %w", name, err)
	}

	extraction, err := p.extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}

	return &domain.ProcessingResult{
		FileName:       name,
		StructuredText: text,
		ExtractedData:  extraction.Data,
		SchemaOK:       extraction.SchemaOK,
	}, nil
}

// ProcessBatch fans the per-file pipeline out over a fixed-size worker pool.
// A failed file is logged and dropped; the batch continues. Results arrive
// in completion order, and failures are reported per file name.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) ([]domain.ProcessingResult, map[string]error) {
	if len(paths) == 0 {
		return nil, nil
	}

	sem := make(chan struct{}, p.cfg.MaxWorkers)
	resultCh := make(chan domain.ProcessingResult, len(paths))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures = make(map[string]error)
	)

	log.Printf("processor: processing %d files (workers=%d)", len(paths), p.cfg.MaxWorkers)

	for _, path := range paths {
		sem <- struct{}{} // acquire
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer func() { <-sem }() // release

			result, err := p.ProcessFile(ctx, path)
			if err != nil {
				log.Printf("processor: skipping %s: %v", filepath.Base(path), err)
				mu.Lock()
				failures[filepath.Base(path)] = err
				mu.Unlock()
				return
			}
			resultCh <- *result
		}(path)
	}

	wg.Wait()
	close(resultCh)

	results := make([]domain.ProcessingResult, 0, len(paths))
	for r := range resultCh {
		results = append(results, r)
	}

	log.Printf("processor: batch complete: %d/%d files succeeded", len(results), len(paths))
	return results, failures
}

// ProcessChunked splits paths into fixed-size chunks and runs ProcessBatch
// per chunk sequentially, capping peak concurrent connections and memory.
// The success set is the same as unchunked processing, order aside.
func (p *Processor) ProcessChunked(ctx context.Context, paths []string) ([]domain.ProcessingResult, map[string]error) {
	if len(paths) == 0 {
		return nil, nil
	}

	var results []domain.ProcessingResult
	failures := make(map[string]error)

	chunks := chunkPaths(paths, p.cfg.ChunkSize)
	for i, chunk := range chunks {
		log.Printf("processor: chunk %d/%d (%d files)", i+1, len(chunks), len(chunk))
		chunkResults, chunkFailures := p.ProcessBatch(ctx, chunk)
		results = append(results, chunkResults...)
		for name, err := range chunkFailures {
			failures[name] = err
		}
	}
	return results, failures
}

func chunkPaths(paths []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(paths); start += size {
		end := start + size
		if end > len(paths) {
			end = len(paths)
		}
		chunks = append(chunks, paths[start:end])
	}
	return chunks
}
