package cli

import (
	"context"
	"fmt"

	"moneyleft/internal/backend"
	"moneyleft/internal/cache"
	"moneyleft/internal/config"
	"moneyleft/internal/log"
	"moneyleft/internal/services"
	"moneyleft/internal/tools"
)

// App is a fully wired ledger: config, logger, store, services and the
// tool registry on top of them.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Backend  *backend.BackendResult
	Services *tools.Services
	Registry *tools.Registry

	cacheManager *cache.Manager
}

// NewApp wires an App from cfg. Close releases everything it opened.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	table, err := LoadTaxTable(cfg)
	if err != nil {
		return nil, err
	}

	result, err := OpenBackend(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}

	svcs, err := tools.NewServices(result.Store, table, nil, services.WithPublisher(result.Publisher()))
	if err != nil {
		_ = result.Cleanup()
		return nil, err
	}

	results := cache.NewLRUCache[any](cfg.CacheSize, cfg.CacheTTL)
	manager := cache.NewManager()
	manager.Register(results)
	manager.StartCleanup(cfg.CacheTTL)

	registry := tools.NewRegistry(tools.WithCache(results), tools.WithClock(svcs.Now), tools.WithLogger(logger))
	tools.RegisterLedgerTools(registry, svcs)

	logger.Info("Ledger ready",
		"backend", cfg.DataBackend,
		"events", result.Events != nil,
		"tools", len(registry.List()),
	)

	return &App{
		Config:       cfg,
		Logger:       logger,
		Backend:      result,
		Services:     svcs,
		Registry:     registry,
		cacheManager: manager,
	}, nil
}

func (a *App) Close() error {
	a.cacheManager.Stop()
	if err := a.Backend.Cleanup(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	return nil
}

// Bootstrap is the common prologue of every command: .env, config, logger
// and App.
func Bootstrap(ctx context.Context, component string) (*App, error) {
	LoadEnvFile()

	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	logger, err := SetupLogger(cfg, component)
	if err != nil {
		return nil, err
	}
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("start ledger: %w", err)
	}
	return app, nil
}
