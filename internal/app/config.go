package app

import (
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete terminal configuration, loadable from
// environment variables (POS_ prefix), flags, or YAML config files.
type Config struct {
	DatabaseURL     string `usage:"PostgreSQL connection URL; leave empty to run on simulated backends (POS_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
	LedgerPath      string `default:"revenue-ledger.jsonl" usage:"Path of the append-only revenue ledger file" flag:"ledger-path"`
	ReceiptOut      string `usage:"File receipts are appended to; leave empty for stdout" flag:"receipt-out"`
	CustomerID      string `default:"123" usage:"Customer identifier presented at the discount request" flag:"customer-id"`
	RegisterBalance int    `default:"1000" usage:"Opening cash balance of the register" flag:"register-balance"`
}

// LoadConfig loads configuration from environment variables, YAML config
// files, and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "POS",
		Files:     []string{"config.yaml", "/etc/pos/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	return &cfg, nil
}

// applyPlatformDefaults maps the standard DATABASE_URL environment variable
// to the POS_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
}
