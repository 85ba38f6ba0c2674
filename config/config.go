package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `json:"database" yaml:"database"`
	Ledger   LedgerConfig   `json:"ledger" yaml:"ledger"`
	Log      LogConfig      `json:"log" yaml:"log"`
}

// DatabaseConfig locates the SQLite ledger database
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LedgerConfig contains ledger defaults applied to new rows
type LedgerConfig struct {
	DefaultCurrency string `json:"default_currency" yaml:"default_currency"`
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level string `json:"level" yaml:"level"` // "debug", "info", "warn" or "error"
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "./finance.db",
		},
		Ledger: LedgerConfig{
			DefaultCurrency: "EUR",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds a configuration from defaults plus the environment. A .env
// file in the working directory (or the optional explicit path) is read
// first; FINANCE_DB, FINANCE_CURRENCY and FINANCE_LOG_LEVEL then override
// the corresponding fields.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	} else {
		// A missing .env is fine, the defaults stand.
		_ = godotenv.Load()
	}

	cfg := Default()
	if v := os.Getenv("FINANCE_DB"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("FINANCE_CURRENCY"); v != "" {
		cfg.Ledger.DefaultCurrency = v
	}
	if v := os.Getenv("FINANCE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}
