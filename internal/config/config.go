// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries every tunable the engine and its surfaces read.
type Config struct {
	// MinConfidence is the dialect score required to use a dialect
	// extractor instead of the generic one.
	MinConfidence int
	// MaxTransactions caps the tokenizer output per document.
	MaxTransactions int
	// LedgerWindow bounds the bytes scanned after a ledger marker.
	LedgerWindow int
	// RulesPath points at a taxonomy YAML overriding the embedded one.
	RulesPath string
	// DBPath is the sqlite database location for the API server.
	DBPath string
	// Listen is the API server bind address.
	Listen string
}

// Defaults mirrored by the flag layer in cmd.
const (
	DefaultMinConfidence   = 10
	DefaultMaxTransactions = 200
	DefaultLedgerWindow    = 8000
	DefaultDBPath          = "cardparse.db"
	DefaultListen          = ":8080"
)

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over .env entries.
func Load() (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := &Config{
		MinConfidence:   DefaultMinConfidence,
		MaxTransactions: DefaultMaxTransactions,
		LedgerWindow:    DefaultLedgerWindow,
		RulesPath:       os.Getenv("CARDPARSE_RULES"),
		DBPath:          envOr("CARDPARSE_DB", DefaultDBPath),
		Listen:          envOr("CARDPARSE_LISTEN", DefaultListen),
	}

	var err error
	if cfg.MinConfidence, err = envInt("CARDPARSE_MIN_CONFIDENCE", cfg.MinConfidence); err != nil {
		return nil, err
	}
	if cfg.MaxTransactions, err = envInt("CARDPARSE_MAX_TRANSACTIONS", cfg.MaxTransactions); err != nil {
		return nil, err
	}
	if cfg.LedgerWindow, err = envInt("CARDPARSE_LEDGER_WINDOW", cfg.LedgerWindow); err != nil {
		return nil, err
	}

	if cfg.MinConfidence <= 0 {
		return nil, fmt.Errorf("CARDPARSE_MIN_CONFIDENCE must be positive, got %d", cfg.MinConfidence)
	}
	if cfg.MaxTransactions <= 0 {
		return nil, fmt.Errorf("CARDPARSE_MAX_TRANSACTIONS must be positive, got %d", cfg.MaxTransactions)
	}
	if cfg.LedgerWindow <= 0 {
		return nil, fmt.Errorf("CARDPARSE_LEDGER_WINDOW must be positive, got %d", cfg.LedgerWindow)
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}
