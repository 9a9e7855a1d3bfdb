package excel

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"invox/internal/domain"
)

func fullResult(fileName string) domain.ProcessingResult {
	return domain.ProcessingResult{
		FileName: fileName,
		ExtractedData: json.RawMessage(`{
			"invoice_info": {"invoice_number": "INV-001", "date": "2026-01-15", "due_date": "2026-02-15", "currency": "EUR", "total": 121.0},
			"seller": {"name": "ACME GmbH", "tax_id": "DE123"},
			"buyer": {"name": "Widgets Ltd", "tax_id": "GB456"},
			"products": [
				{"description": "Widget A", "quantity": 2, "unit_price": 10.0, "total": 20.0},
				{"description": "Widget B", "quantity": 1, "unit_price": 80.0, "total": 80.0}
			],
			"totals": {"subtotal": 100.0, "tax": 21.0, "discount": 0, "total": 121.0}
		}`),
		SchemaOK: true,
	}
}

func openWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestBuildWorkbook_NoResults(t *testing.T) {
	data, err := BuildWorkbook(nil)
	assert.Nil(t, data)
	assert.ErrorIs(t, err, domain.ErrNoResults)
}

func TestBuildWorkbook_Sheets(t *testing.T) {
	data, err := BuildWorkbook([]domain.ProcessingResult{fullResult("a.pdf")})
	require.NoError(t, err)

	f := openWorkbook(t, data)
	assert.ElementsMatch(t, []string{"Summary", "Invoices", "Line Items"}, f.GetSheetList())
}

func TestBuildWorkbook_SummarySheet(t *testing.T) {
	data, err := BuildWorkbook([]domain.ProcessingResult{fullResult("a.pdf")})
	require.NoError(t, err)

	f := openWorkbook(t, data)

	header, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(header), 2)
	assert.Equal(t, []string{"File", "Invoice Number", "Date", "Total"}, header[0])
	assert.Equal(t, "a.pdf", header[1][0])
	assert.Equal(t, "INV-001", header[1][1])
	assert.Equal(t, "2026-01-15", header[1][2])
	assert.Equal(t, "121", header[1][3])
}

func TestBuildWorkbook_InvoiceSheet(t *testing.T) {
	data, err := BuildWorkbook([]domain.ProcessingResult{fullResult("a.pdf")})
	require.NoError(t, err)

	f := openWorkbook(t, data)

	seller, err := f.GetCellValue("Invoices", "F2")
	require.NoError(t, err)
	assert.Equal(t, "ACME GmbH", seller)

	buyer, err := f.GetCellValue("Invoices", "H2")
	require.NoError(t, err)
	assert.Equal(t, "Widgets Ltd", buyer)

	schemaOK, err := f.GetCellValue("Invoices", "N2")
	require.NoError(t, err)
	assert.Equal(t, "Yes", schemaOK)
}

func TestBuildWorkbook_LineItemsSheet(t *testing.T) {
	data, err := BuildWorkbook([]domain.ProcessingResult{fullResult("a.pdf"), fullResult("b.pdf")})
	require.NoError(t, err)

	f := openWorkbook(t, data)

	rows, err := f.GetRows("Line Items")
	require.NoError(t, err)
	// Header plus two products per file.
	require.Len(t, rows, 5)
	assert.Equal(t, "a.pdf", rows[1][0])
	assert.Equal(t, "Widget A", rows[1][1])
	assert.Equal(t, "b.pdf", rows[3][0])
}

func TestBuildWorkbook_MissingKeysUsePlaceholder(t *testing.T) {
	result := domain.ProcessingResult{
		FileName:      "sparse.pdf",
		ExtractedData: json.RawMessage(`{"invoice_info": {"invoice_number": "INV-002"}}`),
	}

	data, err := BuildWorkbook([]domain.ProcessingResult{result})
	require.NoError(t, err)

	f := openWorkbook(t, data)

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "INV-002", rows[1][1])
	assert.Equal(t, placeholder, rows[1][2], "missing date")
	assert.Equal(t, placeholder, rows[1][3], "missing total")

	seller, err := f.GetCellValue("Invoices", "F2")
	require.NoError(t, err)
	assert.Equal(t, placeholder, seller)
}

func TestBuildWorkbook_RawTextFallbackRow(t *testing.T) {
	result := domain.ProcessingResult{
		FileName:      "unparsed.pdf",
		ExtractedData: json.RawMessage(`{"raw_text": "could not structure this"}`),
	}

	data, err := BuildWorkbook([]domain.ProcessingResult{result})
	require.NoError(t, err)

	f := openWorkbook(t, data)

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "unparsed.pdf", rows[1][0])
	assert.Equal(t, placeholder, rows[1][1])

	// No products means no line item rows.
	items, err := f.GetRows("Line Items")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestProbeValue(t *testing.T) {
	m := map[string]any{
		"s":      "text",
		"n":      42.5,
		"empty":  "",
		"isnull": nil,
		"nested": map[string]any{"a": 1},
	}

	assert.Equal(t, "text", probeValue(m, "s"))
	assert.Equal(t, 42.5, probeValue(m, "n"))
	assert.Equal(t, placeholder, probeValue(m, "empty"))
	assert.Equal(t, placeholder, probeValue(m, "isnull"))
	assert.Equal(t, placeholder, probeValue(m, "missing"))
	assert.Equal(t, placeholder, probeValue(nil, "anything"))
	assert.JSONEq(t, `{"a":1}`, probeValue(m, "nested").(string))
}
