package port

import "context"

// UsageInfo reports OCR service account usage, used by the readiness probe.
type UsageInfo struct {
	CurrentPageCount int `json:"current_page_count"`
	DailyQuota       int `json:"daily_quota"`
	MonthlyQuota     int `json:"monthly_quota"`
	TodaysPageCount  int `json:"todays_page_count"`
}

// TextExtractor converts a PDF on disk into layout-preserving structured text.
type TextExtractor interface {
	// Extract submits the file, waits for completion bounded by the
	// configured timeout, and returns the structured text.
	Extract(ctx context.Context, path string) (string, error)
	// Usage fetches account usage from the OCR service.
	Usage(ctx context.Context) (*UsageInfo, error)
}
