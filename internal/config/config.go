package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	gomoney "github.com/Rhymond/go-money"
)

type Config struct {
	// Database
	DBPath string

	// AMQP audit transport. Empty URL disables audit publishing.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets audit sink
	GoogleSpreadsheetID string
	GoogleAuditSheet    string

	// Billing worker
	BillingInterval time.Duration

	// Notes encryption key, hex-encoded. Empty disables encryption.
	EncryptionKeyHex string

	// Ledger defaults
	DefaultCurrency string
	ActorID         string

	// Report cache
	ReportCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		DBPath: getEnv("TALLY_DB_PATH", "./data/tally.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tally"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "audit_events"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleAuditSheet:    getEnv("GOOGLE_AUDIT_SHEET_NAME", "Audit"),

		BillingInterval: getEnvDuration("BILLING_INTERVAL", time.Hour),

		EncryptionKeyHex: getEnv("TALLY_ENCRYPTION_KEY", ""),

		DefaultCurrency: getEnv("TALLY_CURRENCY", "USD"),
		ActorID:         getEnv("TALLY_ACTOR_ID", "tally"),

		ReportCacheTTL: getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),
	}
}

// EncryptionKey decodes the configured key. Returns nil when encryption
// is disabled.
func (c *Config) EncryptionKey() ([]byte, error) {
	if c.EncryptionKeyHex == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.EncryptionKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	return key, nil
}

// Validate checks the configuration, collecting every problem into one
// error.
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BillingInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid billing interval %v: must be at least 1 minute", c.BillingInterval))
	} else if c.BillingInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid billing interval %v: must be at most 24 hours", c.BillingInterval))
	}

	if c.EncryptionKeyHex != "" {
		key, err := hex.DecodeString(c.EncryptionKeyHex)
		switch {
		case err != nil:
			errs = append(errs, "encryption key must be hex-encoded")
		case len(key) != 16 && len(key) != 24 && len(key) != 32:
			errs = append(errs, fmt.Sprintf("encryption key must be 16, 24 or 32 bytes, got %d", len(key)))
		}
	}

	if gomoney.GetCurrency(strings.ToUpper(c.DefaultCurrency)) == nil {
		errs = append(errs, fmt.Sprintf("unknown default currency '%s'", c.DefaultCurrency))
	}

	if c.ReportCacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid report cache TTL %v: must be at least 1 second", c.ReportCacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
