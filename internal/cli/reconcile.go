package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/invoice-recon/internal/batch"
	"github.com/FACorreiaa/invoice-recon/internal/domain/enrich"
	"github.com/FACorreiaa/invoice-recon/internal/domain/export"
	"github.com/FACorreiaa/invoice-recon/internal/domain/ledger"
	"github.com/FACorreiaa/invoice-recon/internal/domain/reconcile"
)

var (
	reconSupplier    string
	reconFields      []string
	reconLedgerPath  string
	reconStoreEmails string
	reconOut         string
	reconTolerance   string
	reconSkipRows    int
	reconOrderField  string
	reconGrossField  string
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [documents...]",
	Short: "Extract invoices and reconcile them against the GOLD ledger",
	Long: `Extracts each document, aggregates the GOLD ledger per order number,
joins on the extracted order number and flags amount agreement. Orders
missing from the ledger get NOT FOUND sentinels; with a store email
table each row also carries the store's contact address.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconSupplier, "supplier", "s", "", "supplier profile to apply")
	reconcileCmd.Flags().StringSliceVarP(&reconFields, "fields", "f", nil, "fields to extract (default: all profile fields)")
	reconcileCmd.Flags().StringVarP(&reconLedgerPath, "ledger", "l", "", "GOLD ledger file (.csv or .xlsx)")
	reconcileCmd.Flags().StringVar(&reconStoreEmails, "store-emails", "", "store email table (.csv or .xlsx)")
	reconcileCmd.Flags().StringVarP(&reconOut, "out", "o", "", "output file (.csv or .xlsx, default: CSV on stdout)")
	reconcileCmd.Flags().StringVar(&reconTolerance, "tolerance", "", "compare amounts numerically within this tolerance instead of canonically")
	reconcileCmd.Flags().IntVar(&reconSkipRows, "skip-rows", -1, "leading rows before the ledger header (default from env, 1)")
	reconcileCmd.Flags().StringVar(&reconOrderField, "order-field", "", "extracted field joined against the ledger (default order_number)")
	reconcileCmd.Flags().StringVar(&reconGrossField, "gross-field", "", "extracted field compared against the ledger gross (default gross_amount)")
	_ = reconcileCmd.MarkFlagRequired("supplier")
	_ = reconcileCmd.MarkFlagRequired("ledger")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, args []string) error {
	fields, err := resolveFields(reconSupplier, reconFields)
	if err != nil {
		return err
	}

	opts, err := reconcileOptions()
	if err != nil {
		return err
	}

	l, err := loadLedger()
	if err != nil {
		return err
	}
	logger.Info("ledger loaded", "path", reconLedgerPath, "orders", l.Len())

	var emails *enrich.Table
	if reconStoreEmails != "" {
		emails, err = enrich.Load(reconStoreEmails)
		if err != nil {
			return fmt.Errorf("load store emails: %w", err)
		}
	}

	items, stats := newProcessor().Run(cmd.Context(), args, reconSupplier, fields)
	reportFailures(cmd, items)

	recs := reconcile.Reconcile(batch.Results(items), l, opts)

	matched := 0
	for _, rec := range recs {
		if rec.AmountMatches {
			matched++
		}
	}
	logger.Info("reconciliation complete",
		"documents", stats.Total,
		"extracted", stats.Extracted,
		"failed", stats.Failed,
		"amount_matches", matched)

	table := export.ReconciliationTable(recs, fields, emails)
	return writeTable(cmd, table, reconOut)
}

// reconcileOptions derives the comparison mode from the flag, falling back
// to the environment configuration.
func reconcileOptions() (reconcile.Options, error) {
	opts := reconcile.DefaultOptions()
	if reconOrderField != "" {
		opts.OrderField = reconOrderField
	}
	if reconGrossField != "" {
		opts.GrossField = reconGrossField
	}

	tolerance := reconTolerance
	if tolerance == "" && cfg.Reconcile.ToleranceEnabled {
		tolerance = cfg.Reconcile.Tolerance
	}
	if tolerance == "" {
		return opts, nil
	}

	tol, err := decimal.NewFromString(tolerance)
	if err != nil {
		return opts, fmt.Errorf("parse tolerance %q: %w", tolerance, err)
	}
	if tol.IsNegative() {
		return opts, fmt.Errorf("tolerance must not be negative")
	}
	opts.Comparison = reconcile.CompareNumericTolerance
	opts.Tolerance = tol
	return opts, nil
}

func loadLedger() (*ledger.Ledger, error) {
	lopts := ledger.DefaultOptions()
	lopts.Sheet = cfg.Ledger.Sheet
	lopts.SkipRows = cfg.Ledger.SkipRows
	if reconSkipRows >= 0 {
		lopts.SkipRows = reconSkipRows
	}
	lopts.Delimiter = rune(cfg.Ledger.Delimiter[0])

	l, err := ledger.Load(reconLedgerPath, lopts)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return l, nil
}
