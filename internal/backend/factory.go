package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expensebot/internal/memstore"
	"expensebot/internal/postgres"
	"expensebot/internal/storage"
)

func errInvalidType(t Type) error {
	return fmt.Errorf("invalid backend type: %s", t)
}

func errMissing(key string, t Type) error {
	return fmt.Errorf("%s is required for the %s backend", key, t)
}

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new store factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case MemoryBackend:
		f.logger.Info("Initialized in-memory store")
		store := memstore.New()
		return &Result{Store: store, Cleanup: store.Close}, nil

	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite store", "db_path", config.SQLiteDBPath)
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	case PostgresBackend:
		repo, err := postgres.NewRepository(ctx, config.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres repository: %w", err)
		}
		f.logger.Info("Initialized Postgres store")
		return &Result{Store: repo, Cleanup: repo.Close}, nil

	default:
		return nil, errInvalidType(config.Type)
	}
}
