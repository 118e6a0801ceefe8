// Package cli holds the start-up steps shared by the ledger commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"moneyleft/internal/backend"
	"moneyleft/internal/config"
	"moneyleft/internal/log"
	"moneyleft/internal/tax"
)

// LoadEnvFile loads a .env file for local development. A missing file is
// not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and validates the result.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the process logger from cfg and installs it as the
// slog default. Logs always go to stderr.
func SetupLogger(cfg *config.Config, component string) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{
		Level:     level,
		Format:    cfg.LogFormat,
		Component: component,
		Writer:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger, nil
}

// OpenBackend opens the configured store and, if configured, the event client.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.Logger.With(log.FieldComponent, log.ComponentBackend)).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", bcfg.Type, err)
	}
	return result, nil
}

// LoadTaxTable returns the bracket table from cfg.TaxBracketsFile, or the
// built-in table when none is configured.
func LoadTaxTable(cfg *config.Config) (tax.Table, error) {
	if cfg.TaxBracketsFile == "" {
		return tax.DefaultTable(), nil
	}
	table, err := tax.LoadTable(cfg.TaxBracketsFile)
	if err != nil {
		return tax.Table{}, fmt.Errorf("load tax table %s: %w", cfg.TaxBracketsFile, err)
	}
	return table, nil
}

// SignalContext is cancelled on SIGINT or SIGTERM. Call stop to release the
// signal handler.
func SignalContext(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ShutdownContext bounds the time spent draining after a signal.
func ShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
