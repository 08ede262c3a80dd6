// Package cli wires the extraction and reconciliation pipeline into the
// invoice-recon command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/invoice-recon/internal/domain/extraction"
	"github.com/FACorreiaa/invoice-recon/pkg/config"
)

var version = "dev"

var (
	cfg      *config.Config
	registry *extraction.Registry
	logger   *slog.Logger

	registryPath string
	workerCount  int
)

var rootCmd = &cobra.Command{
	Use:   "invoice-recon",
	Short: "Extract invoice fields and reconcile them against a GOLD ledger",
	Long: `invoice-recon pulls structured fields out of raw invoice text using
per-supplier pattern tables, joins them against an authoritative order
ledger, and reports whether the amounts agree.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}

		logger = newLogger(cfg.Logging)
		slog.SetDefault(logger)

		registry, err = loadRegistry(cfg.Registry)
		if err != nil {
			return fmt.Errorf("load supplier registry: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "supplier registry TOML file (default: built-in profiles)")
	rootCmd.PersistentFlags().IntVar(&workerCount, "workers", 0, "extraction worker count (default: GOMAXPROCS)")
}

// Execute runs the command tree and reports failures on stderr.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(lc config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(lc.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func engine() *extraction.Engine {
	return extraction.NewEngine(registry)
}

func loadRegistry(rc config.RegistryConfig) (*extraction.Registry, error) {
	path := registryPath
	if path == "" {
		path = rc.Path
	}
	if path == "" {
		return extraction.Builtin(), nil
	}
	return extraction.LoadFile(path)
}
