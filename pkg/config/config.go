// Package config reads application configuration from environment variables,
// with a .env file honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Registry  RegistryConfig
	Ledger    LedgerConfig
	Enrich    EnrichConfig
	Batch     BatchConfig
	Reconcile ReconcileConfig
	Logging   LoggingConfig
}

// RegistryConfig locates the supplier rule tables.
type RegistryConfig struct {
	// Path points at a TOML registry definition; empty selects the
	// built-in profiles.
	Path string
}

// LedgerConfig configures GOLD ledger loading.
type LedgerConfig struct {
	Path      string
	Sheet     string
	SkipRows  int
	Delimiter string
}

// EnrichConfig locates the store email reference table.
type EnrichConfig struct {
	StoreEmailsPath string
}

// BatchConfig sizes the extraction worker pool.
type BatchConfig struct {
	Workers int
}

// ReconcileConfig selects the amount comparison behavior.
type ReconcileConfig struct {
	// ToleranceEnabled switches from canonical string comparison to
	// numeric comparison within Tolerance.
	ToleranceEnabled bool
	Tolerance        string
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg := &Config{
		Registry: RegistryConfig{
			Path: getEnv("RECON_REGISTRY_PATH", ""),
		},
		Ledger: LedgerConfig{
			Path:      getEnv("RECON_LEDGER_PATH", ""),
			Sheet:     getEnv("RECON_LEDGER_SHEET", ""),
			SkipRows:  getEnvAsInt("RECON_LEDGER_SKIP_ROWS", 1),
			Delimiter: getEnv("RECON_LEDGER_DELIMITER", ","),
		},
		Enrich: EnrichConfig{
			StoreEmailsPath: getEnv("RECON_STORE_EMAILS_PATH", ""),
		},
		Batch: BatchConfig{
			Workers: getEnvAsInt("RECON_WORKERS", 0),
		},
		Reconcile: ReconcileConfig{
			ToleranceEnabled: getEnvAsBool("RECON_TOLERANCE_ENABLED", false),
			Tolerance:        getEnv("RECON_TOLERANCE", "0.00"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if cfg.Ledger.SkipRows < 0 {
		return nil, fmt.Errorf("RECON_LEDGER_SKIP_ROWS must not be negative")
	}
	if len(cfg.Ledger.Delimiter) != 1 {
		return nil, fmt.Errorf("RECON_LEDGER_DELIMITER must be a single character")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
