// Package export serializes extraction and reconciliation records to CSV and
// XLSX. Column order is a function of the requested field list, never of map
// iteration, so repeated runs produce identical files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/invoice-recon/internal/domain/enrich"
	"github.com/FACorreiaa/invoice-recon/internal/domain/extraction"
	"github.com/FACorreiaa/invoice-recon/internal/domain/reconcile"
)

// SheetName is the worksheet used for XLSX output.
const SheetName = "Invoices"

// StoreField is the extracted field joined against the store email table.
const StoreField = "store_code"

// Table is a fully materialized, ordered result set ready to serialize.
type Table struct {
	Header []string
	Rows   [][]string
}

// ExtractionTable lays out plain extraction results: document, supplier,
// then the requested fields in request order. Null values become empty cells.
func ExtractionTable(results []extraction.Result, fields []string) Table {
	t := Table{Header: baseHeader(fields)}
	for _, res := range results {
		t.Rows = append(t.Rows, baseRow(res, fields))
	}
	return t
}

// ReconciliationTable lays out reconciled records: the extraction columns
// followed by gold_gross_amount, gold_invoice_number and amount_matches.
// With a store email table the email column is appended, joined on the
// extracted store code.
func ReconciliationTable(recs []reconcile.Record, fields []string, emails *enrich.Table) Table {
	header := append(baseHeader(fields), "gold_gross_amount", "gold_invoice_number", "amount_matches")
	if emails != nil {
		header = append(header, "email")
	}

	t := Table{Header: header}
	for _, rec := range recs {
		row := baseRow(rec.Result, fields)
		row = append(row,
			rec.GoldGrossDisplay(),
			rec.GoldInvoiceDisplay(),
			strconv.FormatBool(rec.AmountMatches),
		)
		if emails != nil {
			row = append(row, emails.EmailFor(rec.Field(StoreField).String()))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func baseHeader(fields []string) []string {
	header := make([]string, 0, len(fields)+2)
	header = append(header, "document", "supplier")
	return append(header, fields...)
}

func baseRow(res extraction.Result, fields []string) []string {
	row := make([]string, 0, len(fields)+2)
	row = append(row, res.Document, res.Supplier)
	for _, name := range fields {
		row = append(row, res.Field(name).String())
	}
	return row
}

// WriteCSV serializes the table as comma-separated text.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX serializes the table as a workbook with a bold header row on the
// Invoices sheet.
func (t Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := toAny(t.Header)
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(t.Header), 1)
	if err != nil {
		return fmt.Errorf("resolve header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("resolve row cell: %w", err)
		}
		values := toAny(row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func toAny(row []string) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
