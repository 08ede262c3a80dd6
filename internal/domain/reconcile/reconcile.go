// Package reconcile joins extraction results against the GOLD ledger by
// order number and flags amount agreement. The join is a pure mapping: one
// output record per input result, in input order, with absence represented
// as sentinels instead of errors.
package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/invoice-recon/internal/domain/extraction"
	"github.com/FACorreiaa/invoice-recon/internal/domain/ledger"
	"github.com/FACorreiaa/invoice-recon/pkg/numeric"
)

// NotFoundSentinel marks ledger fields for order numbers absent from GOLD.
const NotFoundSentinel = "NOT FOUND"

// Mode selects how extracted and ledger gross amounts are compared.
type Mode int

const (
	// CompareCanonical compares the canonical two-decimal string forms.
	// This is the historical default; numerically equal but differently
	// scaled values would disagree, which is why CompareNumericTolerance
	// exists as an opt-in.
	CompareCanonical Mode = iota
	// CompareNumericTolerance treats amounts as matching when their
	// absolute difference is at most Options.Tolerance.
	CompareNumericTolerance
)

// Options configures the join.
type Options struct {
	// OrderField names the extracted field holding the order number.
	OrderField string
	// GrossField names the extracted field holding the gross amount.
	GrossField string
	Comparison Mode
	// Tolerance applies only with CompareNumericTolerance; zero demands
	// exact numeric equality.
	Tolerance decimal.Decimal
}

// DefaultOptions returns the standard field bindings with the historical
// canonical comparison.
func DefaultOptions() Options {
	return Options{
		OrderField: "order_number",
		GrossField: "gross_amount",
	}
}

// Record is an extraction result enriched with its ledger counterpart.
// AmountMatches is defined for every record and false whenever the order
// number is null or absent from the ledger.
type Record struct {
	extraction.Result

	GoldFound      bool
	GoldGross      decimal.Decimal
	GoldInvoice    string
	GoldHasInvoice bool
	AmountMatches  bool
}

// GoldGrossDisplay renders the ledger gross for serialization, with the
// not-found sentinel when the order has no ledger entry.
func (r Record) GoldGrossDisplay() string {
	if !r.GoldFound {
		return NotFoundSentinel
	}
	return numeric.Canonical(r.GoldGross)
}

// GoldInvoiceDisplay renders the ledger invoice number, with the not-found
// sentinel when the order has no ledger entry.
func (r Record) GoldInvoiceDisplay() string {
	if !r.GoldFound {
		return NotFoundSentinel
	}
	return r.GoldInvoice
}

// Reconcile joins each result to the ledger. Inputs are not mutated; the
// output preserves input order and length.
func Reconcile(results []extraction.Result, l *ledger.Ledger, opts Options) []Record {
	if opts.OrderField == "" {
		opts.OrderField = "order_number"
	}
	if opts.GrossField == "" {
		opts.GrossField = "gross_amount"
	}

	out := make([]Record, len(results))
	for i, res := range results {
		out[i] = reconcileOne(res, l, opts)
	}
	return out
}

func reconcileOne(res extraction.Result, l *ledger.Ledger, opts Options) Record {
	rec := Record{Result: res}

	order := res.Field(opts.OrderField)
	if order.IsNull() {
		return rec
	}

	gold, ok := l.Lookup(order.String())
	if !ok {
		return rec
	}

	rec.GoldFound = true
	rec.GoldGross = gold.Gross
	rec.GoldInvoice = gold.InvoiceNumber
	rec.GoldHasInvoice = gold.HasInvoice
	rec.AmountMatches = amountMatches(res.Field(opts.GrossField), gold.Gross, opts)
	return rec
}

func amountMatches(extracted extraction.FieldValue, gold decimal.Decimal, opts Options) bool {
	d, ok := extracted.Number()
	if !ok {
		return false
	}
	switch opts.Comparison {
	case CompareNumericTolerance:
		return d.Sub(gold).Abs().LessThanOrEqual(opts.Tolerance)
	default:
		return numeric.Canonical(d) == numeric.Canonical(gold)
	}
}
