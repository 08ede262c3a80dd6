package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/invoice-recon/internal/domain/extraction"
	"github.com/FACorreiaa/invoice-recon/internal/domain/ledger"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func result(t *testing.T, order, gross string) extraction.Result {
	t.Helper()
	fields := map[string]extraction.FieldValue{
		"order_number": extraction.NullValue(),
		"gross_amount": extraction.NullValue(),
	}
	if order != "" {
		fields["order_number"] = extraction.TextValue(order)
	}
	if gross != "" {
		fields["gross_amount"] = extraction.NumberValue(dec(t, gross))
	}
	return extraction.Result{
		Supplier:  "ACME",
		Document:  "inv.txt",
		Requested: []string{"order_number", "gross_amount"},
		Fields:    fields,
	}
}

func testLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	return ledger.Aggregate([]ledger.Row{
		{OrderNumber: "O1", Gross: dec(t, "100.00")},
		{OrderNumber: "O1", Gross: dec(t, "50.50"), InvoiceNumber: "F/99", HasInvoice: true},
	})
}

func TestReconcile(t *testing.T) {
	l := testLedger(t)

	t.Run("matching amount", func(t *testing.T) {
		recs := Reconcile([]extraction.Result{result(t, "O1", "150.50")}, l, DefaultOptions())

		require.Len(t, recs, 1)
		rec := recs[0]
		assert.True(t, rec.GoldFound)
		assert.True(t, rec.AmountMatches)
		assert.Equal(t, "150.50", rec.GoldGrossDisplay())
		assert.Equal(t, "F/99", rec.GoldInvoiceDisplay())
	})

	t.Run("differing amount", func(t *testing.T) {
		recs := Reconcile([]extraction.Result{result(t, "O1", "150.00")}, l, DefaultOptions())

		assert.True(t, recs[0].GoldFound)
		assert.False(t, recs[0].AmountMatches)
	})

	t.Run("order number absent from ledger", func(t *testing.T) {
		recs := Reconcile([]extraction.Result{result(t, "O404", "150.50")}, l, DefaultOptions())

		rec := recs[0]
		assert.False(t, rec.GoldFound)
		assert.False(t, rec.AmountMatches)
		assert.Equal(t, NotFoundSentinel, rec.GoldGrossDisplay())
		assert.Equal(t, NotFoundSentinel, rec.GoldInvoiceDisplay())
	})

	t.Run("null order number", func(t *testing.T) {
		recs := Reconcile([]extraction.Result{result(t, "", "150.50")}, l, DefaultOptions())

		assert.False(t, recs[0].GoldFound)
		assert.False(t, recs[0].AmountMatches)
	})

	t.Run("null gross amount never matches", func(t *testing.T) {
		recs := Reconcile([]extraction.Result{result(t, "O1", "")}, l, DefaultOptions())

		assert.True(t, recs[0].GoldFound)
		assert.False(t, recs[0].AmountMatches)
	})

	t.Run("preserves input order and length", func(t *testing.T) {
		in := []extraction.Result{
			result(t, "O1", "150.50"),
			result(t, "O404", ""),
			result(t, "O1", "1.00"),
		}
		recs := Reconcile(in, l, DefaultOptions())

		require.Len(t, recs, 3)
		assert.True(t, recs[0].AmountMatches)
		assert.False(t, recs[1].GoldFound)
		assert.False(t, recs[2].AmountMatches)
		// Inputs stay untouched.
		assert.Equal(t, "ACME", in[0].Supplier)
	})

	t.Run("tolerance comparison opt-in", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Comparison = CompareNumericTolerance
		opts.Tolerance = dec(t, "0.01")

		recs := Reconcile([]extraction.Result{result(t, "O1", "150.49")}, l, opts)
		assert.True(t, recs[0].AmountMatches)

		opts.Tolerance = decimal.Decimal{}
		recs = Reconcile([]extraction.Result{result(t, "O1", "150.49")}, l, opts)
		assert.False(t, recs[0].AmountMatches)

		recs = Reconcile([]extraction.Result{result(t, "O1", "150.50")}, l, opts)
		assert.True(t, recs[0].AmountMatches)
	})

	t.Run("empty field bindings fall back to defaults", func(t *testing.T) {
		recs := Reconcile([]extraction.Result{result(t, "O1", "150.50")}, l, Options{})
		assert.True(t, recs[0].AmountMatches)
	})
}
