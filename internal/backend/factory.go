package backend

import (
	"context"
	"fmt"

	"gastos/internal/amqp"
	"gastos/internal/config"
	"gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/storage/memory"
	"gastos/internal/storage/postgres"
	"gastos/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend opens the configured store. SQL backends apply pending
// migrations before returning.
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		db, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite backend: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return &Result{Repositories: db.Repositories(), Pinger: db, Cleanup: db.Close}, nil

	case PostgresBackend:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL backend: %w", err)
		}
		f.logger.InfoContext(ctx, "Initialized PostgreSQL backend")
		return &Result{Repositories: db.Repositories(), Pinger: db, Cleanup: db.Close}, nil

	default:
		store := memory.New()
		f.logger.InfoContext(ctx, "Initialized memory backend")
		return &Result{Repositories: store.Repositories(), Pinger: store}, nil
	}
}

// CreatePublisher connects the event publisher when AMQP is configured.
// A broker that cannot be reached is logged and the service runs without
// events, so both return values may be nil.
func (f *DefaultFactory) CreatePublisher(ctx context.Context, cfg *config.Config) (services.EventPublisher, CleanupFunc) {
	if cfg.AMQPURL == "" {
		f.logger.InfoContext(ctx, "AMQP not configured, transaction events disabled")
		return nil, nil
	}

	client, err := amqp.NewClient(ctx, amqp.Config{
		URL:           cfg.AMQPURL,
		Exchange:      cfg.AMQPExchange,
		RoutingPrefix: cfg.AMQPRoutingKey,
		Logger:        f.logger,
	})
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", log.FieldError, err.Error())
		return nil, nil
	}

	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"routing_key", cfg.AMQPRoutingKey)
	return client, client.Close
}
