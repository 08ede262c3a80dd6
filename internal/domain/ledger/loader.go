package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/invoice-recon/pkg/numeric"
)

// Required source columns, matched case-insensitively against the header row.
const (
	ColOrderNumber   = "order_number"
	ColInvoiceNumber = "invoice_number"
	ColGrossAmount   = "gross_amount"
)

var requiredColumns = []string{ColOrderNumber, ColInvoiceNumber, ColGrossAmount}

// SchemaError reports which required columns the source is missing. It is the
// one failure the loader raises instead of degrading per-row: without the
// schema the whole reference dataset is unusable.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "gold ledger source missing required columns: " + strings.Join(e.Missing, ", ")
}

// Options configures ledger loading.
type Options struct {
	// Sheet selects the worksheet for XLSX sources; empty picks the first.
	Sheet string
	// SkipRows is the number of leading rows before the header. Exports
	// commonly carry one metadata row, hence the default of 1.
	SkipRows int
	// Delimiter for CSV sources; 0 means comma.
	Delimiter rune
}

// DefaultOptions returns loader options matching the usual export layout.
func DefaultOptions() Options {
	return Options{SkipRows: 1}
}

// Load reads and aggregates a ledger source, dispatching on file extension
// (.xlsx/.xlsm via excelize, anything else as CSV).
func Load(path string, opts Options) (*Ledger, error) {
	rows, err := LoadRows(path, opts)
	if err != nil {
		return nil, err
	}
	return Aggregate(rows), nil
}

// LoadRows reads the raw source rows without aggregating them.
func LoadRows(path string, opts Options) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gold ledger source: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, opts)
	default:
		return ReadCSV(f, opts)
	}
}

// ReadXLSX reads ledger rows from a spreadsheet.
func ReadXLSX(r io.Reader, opts Options) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open gold ledger workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("gold ledger workbook has no sheets")
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return buildRows(cells, opts.SkipRows)
}

// ReadCSV reads ledger rows from delimiter-separated text.
func ReadCSV(r io.Reader, opts Options) ([]Row, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	cells, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read gold ledger csv: %w", err)
	}
	return buildRows(cells, opts.SkipRows)
}

// buildRows locates the header after skipped metadata rows, validates the
// schema and converts the data rows.
func buildRows(cells [][]string, skipRows int) ([]Row, error) {
	if skipRows < 0 {
		skipRows = 0
	}
	if skipRows >= len(cells) {
		return nil, &SchemaError{Missing: requiredColumns}
	}

	header := cells[skipRows]
	idx, missing := mapHeader(header)
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	cell := func(row []string, col int) string {
		if col >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	rows := make([]Row, 0, len(cells)-skipRows-1)
	for _, raw := range cells[skipRows+1:] {
		row := Row{
			OrderNumber:   cell(raw, idx[ColOrderNumber]),
			InvoiceNumber: cell(raw, idx[ColInvoiceNumber]),
		}
		row.HasInvoice = row.InvoiceNumber != ""
		row.Gross = parseGross(cell(raw, idx[ColGrossAmount]))
		rows = append(rows, row)
	}
	return rows, nil
}

// mapHeader resolves required column indexes; the first occurrence of a
// header name wins. Missing names come back in required-column order.
func mapHeader(header []string) (map[string]int, []string) {
	idx := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		for _, want := range requiredColumns {
			if name == want {
				if _, seen := idx[want]; !seen {
					idx[want] = i
				}
			}
		}
	}

	var missing []string
	for _, want := range requiredColumns {
		if _, ok := idx[want]; !ok {
			missing = append(missing, want)
		}
	}
	return idx, missing
}

// parseGross accepts both spreadsheet dot-decimals ("150.50") and
// locale-formatted amounts ("1 234,56"). A cell that parses as neither
// contributes zero rather than dropping the order from the ledger.
func parseGross(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Decimal{}
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return d.Round(2)
	}
	if d, ok := numeric.Normalize(raw); ok {
		return d
	}
	return decimal.Decimal{}
}
