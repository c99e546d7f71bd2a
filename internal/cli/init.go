// Package cli implements the tally command line: shared bootstrap for
// the binaries plus the subcommands of the main binary.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"tally/internal/audit"
	"tally/internal/config"
	"tally/internal/log"
	"tally/internal/secure"
	"tally/internal/storage"
)

// LoadEnvFile loads the .env file for local development. Errors are
// ignored; the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging for a binary and installs
// it as the process default.
func SetupLogger(component string) *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Component = component
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration, exiting the process on
// validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the ledger database, exiting the process on failure.
func InitStore(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	store, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("failed to open ledger database", log.FieldError, err, log.FieldFile, dbPath)
		os.Exit(1)
	}
	return store
}

// BuildEncryptor constructs the notes encryptor from configuration. No
// key configured means a pass-through encryptor.
func BuildEncryptor(logger *log.Logger, cfg *config.Config) secure.Encryptor {
	key, err := cfg.EncryptionKey()
	if err != nil {
		logger.Error("invalid encryption key", log.FieldError, err)
		os.Exit(1)
	}
	if key == nil {
		return secure.Noop{}
	}
	enc, err := secure.NewAESGCM(key)
	if err != nil {
		logger.Error("failed to build encryptor", log.FieldError, err)
		os.Exit(1)
	}
	return enc
}

// BuildRecorder constructs the audit recorder. Without an AMQP URL, or
// when the broker is unreachable, audit publishing degrades to a no-op:
// ledger operations never depend on the audit trail.
func BuildRecorder(logger *log.Logger, cfg *config.Config, connect func() (audit.Recorder, error)) (audit.Recorder, func()) {
	if cfg.AMQPURL == "" {
		return audit.Nop{}, func() {}
	}
	rec, err := connect()
	if err != nil {
		logger.Warn("audit transport unavailable, continuing without audit trail", log.FieldError, err)
		return audit.Nop{}, func() {}
	}
	closer := func() {}
	if c, ok := rec.(interface{ Close() error }); ok {
		closer = func() { c.Close() }
	}
	return rec, closer
}
