package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moneyleft/internal/amqp"
	"moneyleft/internal/services"
	"moneyleft/internal/storage"
	"moneyleft/internal/storage/memory"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend opens the configured store and, when AMQP_URL is set, an event
// client. An unreachable broker is logged and skipped; the ledger still works.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store services.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = f.createSQLiteStore(config)
	case MemoryBackend:
		store = f.createMemoryStore(config)
	default:
		err = fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	result := &BackendResult{Store: store}
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Events = client
		}
	}

	result.Cleanup = func() error {
		var errs []error
		if result.Events != nil {
			errs = append(errs, result.Events.Close())
		}
		errs = append(errs, store.Close())
		return errors.Join(errs...)
	}
	return result, nil
}

func (f *DefaultFactory) createSQLiteStore(config Config) (services.Store, error) {
	var opts []storage.Option
	if config.Now != nil {
		opts = append(opts, storage.WithClock(config.Now))
	}
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return repo, nil
}

func (f *DefaultFactory) createMemoryStore(config Config) services.Store {
	now := config.Now
	if now == nil {
		now = time.Now
	}
	f.logger.Info("Initialized memory backend")
	return memory.NewWithClock(now)
}
