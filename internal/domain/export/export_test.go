package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/FACorreiaa/invoice-recon/internal/domain/enrich"
	"github.com/FACorreiaa/invoice-recon/internal/domain/extraction"
	"github.com/FACorreiaa/invoice-recon/internal/domain/reconcile"
)

var testFields = []string{"invoice_number", "store_code", "gross_amount"}

func testResult(t *testing.T) extraction.Result {
	t.Helper()
	gross, err := decimal.NewFromString("150.50")
	require.NoError(t, err)
	return extraction.Result{
		Supplier:  "MAG Dystrybucja",
		Document:  "inv-01.txt",
		Requested: testFields,
		Fields: map[string]extraction.FieldValue{
			"invoice_number": extraction.TextValue("FV/123/2024"),
			"store_code":     extraction.TextValue("1042"),
			"gross_amount":   extraction.NumberValue(gross),
		},
	}
}

func nullResult() extraction.Result {
	return extraction.Result{
		Supplier:  "MAG Dystrybucja",
		Document:  "inv-02.txt",
		Requested: testFields,
		Fields: map[string]extraction.FieldValue{
			"invoice_number": extraction.NullValue(),
			"store_code":     extraction.NullValue(),
			"gross_amount":   extraction.NullValue(),
		},
	}
}

func TestExtractionTable(t *testing.T) {
	table := ExtractionTable([]extraction.Result{testResult(t), nullResult()}, testFields)

	assert.Equal(t, []string{"document", "supplier", "invoice_number", "store_code", "gross_amount"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"inv-01.txt", "MAG Dystrybucja", "FV/123/2024", "1042", "150.50"}, table.Rows[0])
	// Null fields serialize as empty cells.
	assert.Equal(t, []string{"inv-02.txt", "MAG Dystrybucja", "", "", ""}, table.Rows[1])
}

func TestReconciliationTable(t *testing.T) {
	gross, err := decimal.NewFromString("150.50")
	require.NoError(t, err)
	recs := []reconcile.Record{
		{
			Result:        testResult(t),
			GoldFound:     true,
			GoldGross:     gross,
			GoldInvoice:   "F/99",
			AmountMatches: true,
		},
		{Result: nullResult()},
	}

	t.Run("without emails", func(t *testing.T) {
		table := ReconciliationTable(recs, testFields, nil)

		assert.Equal(t, []string{
			"document", "supplier", "invoice_number", "store_code", "gross_amount",
			"gold_gross_amount", "gold_invoice_number", "amount_matches",
		}, table.Header)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, []string{"150.50", "F/99", "true"}, table.Rows[0][5:])
		assert.Equal(t, []string{reconcile.NotFoundSentinel, reconcile.NotFoundSentinel, "false"}, table.Rows[1][5:])
	})

	t.Run("with emails", func(t *testing.T) {
		emails := enrich.NewTable(map[string]string{"1042": "sklep1042@example.com"})
		table := ReconciliationTable(recs, testFields, emails)

		assert.Equal(t, "email", table.Header[len(table.Header)-1])
		assert.Equal(t, "sklep1042@example.com", table.Rows[0][8])
		assert.Equal(t, enrich.NoEmailSentinel, table.Rows[1][8])
	})
}

func TestWriteCSV(t *testing.T) {
	table := ExtractionTable([]extraction.Result{testResult(t)}, testFields)

	var buf bytes.Buffer
	require.NoError(t, table.WriteCSV(&buf))

	want := "document,supplier,invoice_number,store_code,gross_amount\n" +
		"inv-01.txt,MAG Dystrybucja,FV/123/2024,1042,150.50\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteXLSX(t *testing.T) {
	table := ExtractionTable([]extraction.Result{testResult(t), nullResult()}, testFields)

	var buf bytes.Buffer
	require.NoError(t, table.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Header, rows[0])
	assert.Equal(t, "FV/123/2024", rows[1][2])
	assert.Equal(t, "150.50", rows[1][4])
}
