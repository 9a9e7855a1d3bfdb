package port

import (
	"context"
	"encoding/json"
)

// Extraction is the result of one field-extraction call.
type Extraction struct {
	// Data is the extracted JSON object. When the model reply is not
	// valid JSON, Data holds {"raw_text": <verbatim reply>} instead.
	Data json.RawMessage
	// SchemaOK reports whether Data matched the advisory invoice schema.
	SchemaOK bool
}

// FieldExtractor turns OCR text into structured invoice data.
type FieldExtractor interface {
	Extract(ctx context.Context, structuredText string) (*Extraction, error)
}
