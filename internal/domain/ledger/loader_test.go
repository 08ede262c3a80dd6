package ledger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	t.Run("skips metadata row by default", func(t *testing.T) {
		src := "GOLD export 2025-01-31\n" +
			"order_number,invoice_number,gross_amount\n" +
			"O1,,100.00\n" +
			"O1,F/99,50.50\n" +
			"O2,F/7,23.00\n"

		rows, err := ReadCSV(strings.NewReader(src), DefaultOptions())
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "O1", rows[0].OrderNumber)
		assert.False(t, rows[0].HasInvoice)
		assert.Equal(t, "100.00", rows[0].Gross.StringFixed(2))
		assert.Equal(t, "F/99", rows[1].InvoiceNumber)
		assert.True(t, rows[1].HasInvoice)
	})

	t.Run("skip rows configurable to zero", func(t *testing.T) {
		src := "order_number,invoice_number,gross_amount\nO1,F/1,10.00\n"

		opts := DefaultOptions()
		opts.SkipRows = 0
		rows, err := ReadCSV(strings.NewReader(src), opts)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "F/1", rows[0].InvoiceNumber)
	})

	t.Run("accepts locale-formatted gross", func(t *testing.T) {
		src := "order_number,invoice_number,gross_amount\nO1,F/1,\"1 234,56\"\n"

		opts := DefaultOptions()
		opts.SkipRows = 0
		rows, err := ReadCSV(strings.NewReader(src), opts)
		require.NoError(t, err)
		assert.Equal(t, "1234.56", rows[0].Gross.StringFixed(2))
	})

	t.Run("unparseable gross contributes zero", func(t *testing.T) {
		src := "order_number,invoice_number,gross_amount\nO1,F/1,n/a\n"

		opts := DefaultOptions()
		opts.SkipRows = 0
		rows, err := ReadCSV(strings.NewReader(src), opts)
		require.NoError(t, err)
		assert.True(t, rows[0].Gross.IsZero())
	})

	t.Run("header matching is case-insensitive", func(t *testing.T) {
		src := "Order_Number,INVOICE_NUMBER,Gross_Amount\nO1,F/1,5.00\n"

		opts := DefaultOptions()
		opts.SkipRows = 0
		rows, err := ReadCSV(strings.NewReader(src), opts)
		require.NoError(t, err)
		assert.Equal(t, "O1", rows[0].OrderNumber)
	})

	t.Run("missing columns name exactly the absent ones", func(t *testing.T) {
		src := "order_number,amount\nO1,5.00\n"

		opts := DefaultOptions()
		opts.SkipRows = 0
		_, err := ReadCSV(strings.NewReader(src), opts)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"invoice_number", "gross_amount"}, schemaErr.Missing)
		assert.Contains(t, err.Error(), "invoice_number, gross_amount")
	})

	t.Run("source shorter than skip count reports full schema missing", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("only one line\n"), DefaultOptions())

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, []string{"order_number", "invoice_number", "gross_amount"}, schemaErr.Missing)
	})

	t.Run("semicolon delimiter", func(t *testing.T) {
		src := "order_number;invoice_number;gross_amount\nO1;F/1;10.00\n"

		opts := DefaultOptions()
		opts.SkipRows = 0
		opts.Delimiter = ';'
		rows, err := ReadCSV(strings.NewReader(src), opts)
		require.NoError(t, err)
		assert.Equal(t, "10.00", rows[0].Gross.StringFixed(2))
	})
}

func goldWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadXLSX(t *testing.T) {
	buf := goldWorkbook(t, [][]any{
		{"GOLD export"},
		{"order_number", "invoice_number", "gross_amount"},
		{"O1", "", "100.00"},
		{"O1", "F/99", "50.50"},
	})

	rows, err := ReadXLSX(bytes.NewReader(buf.Bytes()), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "100.00", rows[0].Gross.StringFixed(2))
	assert.Equal(t, "F/99", rows[1].InvoiceNumber)
}

func TestLoad(t *testing.T) {
	t.Run("csv end to end", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "gold.csv")
		src := "meta\norder_number,invoice_number,gross_amount\nO1,,100.00\nO1,F/99,50.50\n"
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

		l, err := Load(path, DefaultOptions())
		require.NoError(t, err)

		rec, ok := l.Lookup("O1")
		require.True(t, ok)
		assert.Equal(t, "150.50", rec.Gross.StringFixed(2))
		assert.Equal(t, "F/99", rec.InvoiceNumber)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.csv"), DefaultOptions())
		assert.Error(t, err)
	})
}
