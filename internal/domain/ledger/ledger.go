// Package ledger loads and aggregates the GOLD reference dataset that
// extracted invoices are reconciled against. A Ledger is built once per run
// from a tabular source and is read-only afterwards.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Row is one source row before aggregation. HasInvoice distinguishes an
// empty invoice number cell from a present-but-empty value.
type Row struct {
	OrderNumber   string
	InvoiceNumber string
	HasInvoice    bool
	Gross         decimal.Decimal
}

// Record is the aggregated entry for one distinct order number.
type Record struct {
	OrderNumber   string
	InvoiceNumber string
	HasInvoice    bool
	Gross         decimal.Decimal
}

// Ledger maps order numbers to aggregated records.
type Ledger struct {
	records map[string]Record
}

// Aggregate groups rows by order number. Gross amounts accumulate across the
// group (partial shipments under one order sum up). The invoice number is the
// first non-empty value in input order; when every value in the group is
// empty, the last row's value is kept so the pick stays deterministic. Rows
// with an empty order number carry no key to join on and are dropped.
func Aggregate(rows []Row) *Ledger {
	type group struct {
		gross       decimal.Decimal
		invoice     string
		hasInvoice  bool
		lastInvoice string
		lastHas     bool
	}

	groups := make(map[string]*group)
	for _, row := range rows {
		if row.OrderNumber == "" {
			continue
		}
		g, ok := groups[row.OrderNumber]
		if !ok {
			g = &group{}
			groups[row.OrderNumber] = g
		}
		g.gross = g.gross.Add(row.Gross)
		if !g.hasInvoice && row.HasInvoice {
			g.invoice = row.InvoiceNumber
			g.hasInvoice = true
		}
		g.lastInvoice = row.InvoiceNumber
		g.lastHas = row.HasInvoice
	}

	records := make(map[string]Record, len(groups))
	for order, g := range groups {
		rec := Record{
			OrderNumber: order,
			Gross:       g.gross.Round(2),
		}
		if g.hasInvoice {
			rec.InvoiceNumber = g.invoice
			rec.HasInvoice = true
		} else {
			rec.InvoiceNumber = g.lastInvoice
			rec.HasInvoice = g.lastHas
		}
		records[order] = rec
	}

	return &Ledger{records: records}
}

// Lookup returns the record for an order number.
func (l *Ledger) Lookup(order string) (Record, bool) {
	rec, ok := l.records[order]
	return rec, ok
}

// Len returns the number of distinct order numbers.
func (l *Ledger) Len() int { return len(l.records) }

// Orders returns all order numbers in sorted order, for deterministic output.
func (l *Ledger) Orders() []string {
	out := make([]string, 0, len(l.records))
	for order := range l.records {
		out = append(out, order)
	}
	sort.Strings(out)
	return out
}
