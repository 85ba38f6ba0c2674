package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vzahorui/my-finance-explorer/config"
	"github.com/vzahorui/my-finance-explorer/ledger"
)

var rootCmd = &cobra.Command{
	Use:   "finance",
	Short: "A personal finance ledger backed by SQLite",
	Long: `Finance keeps a local ledger of accounts and an append-only
transaction log, and reconciles edits to the account table into
compensating transactions.

It provides tools for:
  - Initializing and resetting the ledger database
  - Adding, editing and removing accounts with compensating log entries
  - Posting batches of manually entered transactions
  - Auditing that every balance matches its transaction history
  - Exporting both tables as CSV`,
}

var (
	cfgFile string
	dbPath  string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "path to SQLite ledger DB (overrides config)")
}

// loadConfig resolves configuration from the --config file when given,
// otherwise from .env/environment over the defaults. --db wins over both.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	return cfg, nil
}

func openStore() (*ledger.Store, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	s, err := ledger.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	return s, cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).With().Timestamp().Logger().Level(level)
}
