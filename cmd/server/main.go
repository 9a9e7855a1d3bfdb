// Command server runs the invox HTTP service: a web form plus JSON API that
// turns uploaded PDF invoices into an Excel workbook.
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"invox/internal/config"
	"invox/internal/email/noop"
	"invox/internal/email/ses"
	"invox/internal/extract"
	"invox/internal/handler"
	"invox/internal/llm"
	"invox/internal/ocr/whisperer"
	"invox/internal/port"
	"invox/internal/router"
	"invox/internal/service"
	"invox/internal/storage/archive"
	localstore "invox/internal/storage/local"
	s3storage "invox/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// External service clients
	ocrClient := whisperer.NewClient(&cfg.OCR)
	completer, err := llm.NewCompleter(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize llm client: %w", err)
	}

	prompt, err := llm.LoadPrompt(cfg.LLM.PromptFile)
	if err != nil {
		return fmt.Errorf("failed to load extraction prompt: %w", err)
	}

	// Core services
	extractor := extract.NewExtractor(completer, prompt)
	processor := service.NewProcessor(ocrClient, extractor, cfg.Batch)

	var store port.WorkbookStore
	store, err = localstore.NewStore(cfg.Server.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize workbook store: %w", err)
	}

	// With archiving on, workbooks are also uploaded to S3 and downloads
	// fall back to the archive when the local copy is gone.
	if cfg.Archive.Enabled {
		objects, err := s3storage.NewS3Client(&cfg.Archive)
		if err != nil {
			return fmt.Errorf("failed to initialize archive storage: %w", err)
		}
		store = archive.NewStore(store, objects, cfg.Archive.Bucket)
	}

	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	batchSvc := service.NewBatchService(processor, store, emailSender, cfg.Batch, cfg.Email)

	// Handlers and router
	batchH := handler.NewBatchHandler(batchSvc)
	workbookH := handler.NewWorkbookHandler(store)
	healthH := handler.NewHealthHandler(cfg, ocrClient, prompt != "")

	r := router.Setup(cfg.CORS.AllowedOrigins, batchH, workbookH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Printf("Server starting on %s (llm=%s model=%s workers=%d)",
		cfg.Server.Port, cfg.LLM.Provider, cfg.LLM.Model, cfg.Batch.MaxWorkers)
	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
