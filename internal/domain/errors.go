package domain

import "errors"

var (
	ErrFileNotFound        = errors.New("file not found")
	ErrNotPDF              = errors.New("file is not a PDF")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrTooManyFiles        = errors.New("too many files in batch")
	ErrNoFiles             = errors.New("no files provided")
	ErrOCRFailed           = errors.New("OCR conversion failed")
	ErrOCRTimeout          = errors.New("OCR conversion timed out")
	ErrEmptyExtraction     = errors.New("OCR returned no text")
	ErrNoResults           = errors.New("no files were processed successfully")
	ErrWorkbookNotFound    = errors.New("workbook not found")
	ErrWorkbookWriteFailed = errors.New("workbook write failed")
)
