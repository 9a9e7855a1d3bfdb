// Package excel flattens heterogeneous extraction results into an Excel
// workbook. The extraction shape is advisory, so every lookup probes for
// known key paths and substitutes a placeholder when a key is absent.
package excel

import (
	"encoding/json"
	"fmt"

	"github.com/xuri/excelize/v2"

	"invox/internal/domain"
)

const (
	sheetSummary   = "Summary"
	sheetInvoices  = "Invoices"
	sheetLineItems = "Line Items"

	// placeholder fills cells whose source key is missing from the
	// extracted data.
	placeholder = "N/A"
)

var summaryColumns = []string{"File", "Invoice Number", "Date", "Total"}

var invoiceColumns = []string{
	"File",
	"Invoice Number",
	"Date",
	"Due Date",
	"Currency",
	"Seller Name",
	"Seller Tax ID",
	"Buyer Name",
	"Buyer Tax ID",
	"Subtotal",
	"Tax",
	"Discount",
	"Total",
	"Schema OK",
}

var lineItemColumns = []string{"File", "Description", "Quantity", "Unit Price", "Total"}

// BuildWorkbook produces an xlsx workbook with Summary, Invoices and
// Line Items sheets from a batch of processing results. Zero results is a
// well-defined failure: no workbook is produced.
func BuildWorkbook(results []domain.ProcessingResult) ([]byte, error) {
	if len(results) == 0 {
		return nil, domain.ErrNoResults
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("%w: renaming sheet: %v", domain.ErrWorkbookWriteFailed, err)
	}
	for _, name := range []string{sheetInvoices, sheetLineItems} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("%w: creating sheet %s: %v", domain.ErrWorkbookWriteFailed, name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("%w: creating header style: %v", domain.ErrWorkbookWriteFailed, err)
	}

	if err := writeSummarySheet(f, headerStyle, results); err != nil {
		return nil, err
	}
	if err := writeInvoiceSheet(f, headerStyle, results); err != nil {
		return nil, err
	}
	if err := writeLineItemSheet(f, headerStyle, results); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWorkbookWriteFailed, err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, headerStyle int, results []domain.ProcessingResult) error {
	if err := writeHeader(f, sheetSummary, summaryColumns, headerStyle); err != nil {
		return err
	}
	for i := range results {
		data := decodeExtraction(results[i].ExtractedData)
		info := probeMap(data, "invoice_info")
		row := []any{
			results[i].FileName,
			probeValue(info, "invoice_number"),
			probeValue(info, "date"),
			probeValue(info, "total"),
		}
		if err := writeRow(f, sheetSummary, i+2, row); err != nil {
			return err
		}
	}
	return setColumnWidths(f, sheetSummary, len(summaryColumns))
}

func writeInvoiceSheet(f *excelize.File, headerStyle int, results []domain.ProcessingResult) error {
	if err := writeHeader(f, sheetInvoices, invoiceColumns, headerStyle); err != nil {
		return err
	}
	for i := range results {
		data := decodeExtraction(results[i].ExtractedData)
		info := probeMap(data, "invoice_info")
		seller := probeMap(data, "seller")
		buyer := probeMap(data, "buyer")
		totals := probeMap(data, "totals")
		row := []any{
			results[i].FileName,
			probeValue(info, "invoice_number"),
			probeValue(info, "date"),
			probeValue(info, "due_date"),
			probeValue(info, "currency"),
			probeValue(seller, "name"),
			probeValue(seller, "tax_id"),
			probeValue(buyer, "name"),
			probeValue(buyer, "tax_id"),
			probeValue(totals, "subtotal"),
			probeValue(totals, "tax"),
			probeValue(totals, "discount"),
			probeValue(totals, "total"),
			formatBool(results[i].SchemaOK),
		}
		if err := writeRow(f, sheetInvoices, i+2, row); err != nil {
			return err
		}
	}
	return setColumnWidths(f, sheetInvoices, len(invoiceColumns))
}

func writeLineItemSheet(f *excelize.File, headerStyle int, results []domain.ProcessingResult) error {
	if err := writeHeader(f, sheetLineItems, lineItemColumns, headerStyle); err != nil {
		return err
	}
	rowNum := 2
	for i := range results {
		data := decodeExtraction(results[i].ExtractedData)
		for _, item := range probeList(data, "products") {
			product, _ := item.(map[string]any)
			row := []any{
				results[i].FileName,
				probeValue(product, "description"),
				probeValue(product, "quantity"),
				probeValue(product, "unit_price"),
				probeValue(product, "total"),
			}
			if err := writeRow(f, sheetLineItems, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}
	return setColumnWidths(f, sheetLineItems, len(lineItemColumns))
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) error {
	if err := writeRowValues(f, sheet, 1, columns); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWorkbookWriteFailed, err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("%w: styling %s header: %v", domain.ErrWorkbookWriteFailed, sheet, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrWorkbookWriteFailed, err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("%w: writing %s!%s: %v", domain.ErrWorkbookWriteFailed, sheet, cell, err)
		}
	}
	return nil
}

func writeRowValues(f *excelize.File, sheet string, row int, values []string) error {
	anyValues := make([]any, len(values))
	for i, v := range values {
		anyValues[i] = v
	}
	return writeRow(f, sheet, row, anyValues)
}

func setColumnWidths(f *excelize.File, sheet string, count int) error {
	last, err := excelize.ColumnNumberToName(count)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrWorkbookWriteFailed, err)
	}
	if err := f.SetColWidth(sheet, "A", last, 22); err != nil {
		return fmt.Errorf("%w: setting %s widths: %v", domain.ErrWorkbookWriteFailed, sheet, err)
	}
	return nil
}

// decodeExtraction decodes the free-form extracted JSON. A result whose data
// is not an object (the raw-text fallback is an object too, so this is rare)
// yields an empty map and the row falls through to placeholders.
func decodeExtraction(raw json.RawMessage) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

func probeMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	nested, _ := m[key].(map[string]any)
	return nested
}

func probeList(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	list, _ := m[key].([]any)
	return list
}

// probeValue returns the value for key or the placeholder when the key is
// missing, null, or an empty string.
func probeValue(m map[string]any, key string) any {
	if m == nil {
		return placeholder
	}
	v, ok := m[key]
	if !ok || v == nil {
		return placeholder
	}
	if s, isStr := v.(string); isStr && s == "" {
		return placeholder
	}
	switch v.(type) {
	case string, float64, bool:
		return v
	default:
		// Nested structures are not representable in a cell.
		b, err := json.Marshal(v)
		if err != nil {
			return placeholder
		}
		return string(b)
	}
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
