// Command batch processes PDF invoices from the command line into an Excel
// workbook, using the same pipeline as the server.
// Usage: batch [-out invoices.xlsx] <file.pdf|dir> [...]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"invox/internal/config"
	"invox/internal/domain"
	"invox/internal/excel"
	"invox/internal/extract"
	"invox/internal/llm"
	"invox/internal/ocr/whisperer"
	"invox/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outPath := flag.String("out", "invoices.xlsx", "output workbook path")
	flag.Parse()

	if flag.NArg() == 0 {
		return fmt.Errorf("usage: batch [-out invoices.xlsx] <file.pdf|dir> [...]")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	paths, err := collectPDFs(flag.Args())
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no PDF files found")
	}

	ocrClient := whisperer.NewClient(&cfg.OCR)
	completer, err := llm.NewCompleter(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize llm client: %w", err)
	}
	prompt, err := llm.LoadPrompt(cfg.LLM.PromptFile)
	if err != nil {
		return fmt.Errorf("failed to load extraction prompt: %w", err)
	}

	extractor := extract.NewExtractor(completer, prompt)
	processor := service.NewProcessor(ocrClient, extractor, cfg.Batch)

	ctx := context.Background()

	var (
		results  []domain.ProcessingResult
		failures map[string]error
	)
	switch {
	case len(paths) == 1:
		result, perr := processor.ProcessFile(ctx, paths[0])
		if perr != nil {
			return fmt.Errorf("processing %s: %w", paths[0], perr)
		}
		results = []domain.ProcessingResult{*result}
	case len(paths) <= cfg.Batch.ChunkSize:
		results, failures = processor.ProcessBatch(ctx, paths)
	default:
		results, failures = processor.ProcessChunked(ctx, paths)
	}

	for name, ferr := range failures {
		log.Printf("failed: %s: %v", name, ferr)
	}

	data, err := excel.BuildWorkbook(results)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *outPath, err)
	}

	log.Printf("wrote %s (%d/%d files)", *outPath, len(results), len(paths))
	return nil
}

// collectPDFs expands the given args into a flat list of PDF paths;
// directories are scanned one level deep.
func collectPDFs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading dir %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				paths = append(paths, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return paths, nil
}
