package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/invoice-recon/internal/batch"
	"github.com/FACorreiaa/invoice-recon/internal/domain/export"
)

var (
	extractSupplier string
	extractFields   []string
	extractOut      string
)

var extractCmd = &cobra.Command{
	Use:   "extract [documents...]",
	Short: "Extract fields from invoice text files",
	Long: `Runs the supplier's pattern table over each document and writes one
row per document. Fields default to everything the supplier profile
defines; unknown suppliers produce all-null rows rather than failing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractSupplier, "supplier", "s", "", "supplier profile to apply")
	extractCmd.Flags().StringSliceVarP(&extractFields, "fields", "f", nil, "fields to extract (default: all profile fields)")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "output file (.csv or .xlsx, default: CSV on stdout)")
	_ = extractCmd.MarkFlagRequired("supplier")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	fields, err := resolveFields(extractSupplier, extractFields)
	if err != nil {
		return err
	}

	items, stats := newProcessor().Run(cmd.Context(), args, extractSupplier, fields)
	reportFailures(cmd, items)

	table := export.ExtractionTable(batch.Results(items), fields)
	if err := writeTable(cmd, table, extractOut); err != nil {
		return err
	}

	logger.Info("extraction complete",
		"documents", stats.Total,
		"extracted", stats.Extracted,
		"failed", stats.Failed)
	return nil
}

// resolveFields defaults to the supplier's full profile. An explicit field
// list passes through untouched so callers can request unconfigured fields
// and get null columns.
func resolveFields(supplier string, requested []string) ([]string, error) {
	if len(requested) > 0 {
		return requested, nil
	}
	fields := registry.Fields(supplier)
	if len(fields) == 0 {
		return nil, fmt.Errorf("supplier %q has no configured fields; pass --fields explicitly", supplier)
	}
	return fields, nil
}

func newProcessor() *batch.Processor {
	workers := workerCount
	if workers <= 0 {
		workers = cfg.Batch.Workers
	}
	return batch.NewProcessor(engine(), batch.FileSource{}, workers, logger)
}

func reportFailures(cmd *cobra.Command, items []batch.Item) {
	for _, item := range items {
		if item.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %v\n", item.Document, item.Err)
		}
	}
}

// writeTable dispatches on the output extension; empty path means CSV on
// stdout.
func writeTable(cmd *cobra.Command, table export.Table, out string) error {
	if out == "" {
		return table.WriteCSV(cmd.OutOrStdout())
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(out)) {
	case ".xlsx":
		err = table.WriteXLSX(f)
	case ".csv":
		err = table.WriteCSV(f)
	default:
		err = errors.New("output extension must be .csv or .xlsx")
	}
	if err != nil {
		return err
	}
	return f.Close()
}
