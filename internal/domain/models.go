package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProcessingResult is the outcome of running one PDF through OCR and
// extraction. It is built once per successfully processed file and is
// never persisted beyond the generated workbook.
type ProcessingResult struct {
	FileName       string          `json:"file_name"`
	StructuredText string          `json:"structured_text"`
	ExtractedData  json.RawMessage `json:"extracted_data"`
	SchemaOK       bool            `json:"schema_ok"`
}

// FileResult reports the per-file outcome inside a batch summary.
type FileResult struct {
	FileName string     `json:"file_name"`
	Status   FileStatus `json:"status"`
	Error    string     `json:"error,omitempty"`
	SchemaOK bool       `json:"schema_ok"`
}

// BatchSummary describes a completed batch run.
type BatchSummary struct {
	BatchID    uuid.UUID    `json:"batch_id"`
	Requested  int          `json:"requested"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	Files      []FileResult `json:"files"`
	WorkbookID uuid.UUID    `json:"workbook_id"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Workbook is a generated Excel artifact held in the workbook store.
type Workbook struct {
	ID        uuid.UUID `json:"id"`
	FileName  string    `json:"file_name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
