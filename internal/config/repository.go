package config

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"task-manager/internal/repository"
	"task-manager/internal/repository/file"
	"task-manager/internal/repository/postgres"
	"task-manager/internal/repository/sqlite"
)

// CreateStore creates the store selected by config.Storage.Backend
func CreateStore(ctx context.Context, config *Config) (repository.Store, error) {
	switch config.Storage.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(filepath.Dir(config.GetDataPath()), fs.FileMode(config.Storage.DirPermissions)); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := sqlite.New(ctx, config.GetDataPath(),
			sqlite.WithSlot(config.Storage.Slot),
			sqlite.WithQueryTimeout(config.GetQueryTimeout()),
			sqlite.WithWriteTimeout(config.GetWriteTimeout()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return store, nil

	case BackendFile:
		store, err := file.New(config.GetDataPath(), fs.FileMode(config.Storage.DirPermissions))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize data file: %w", err)
		}
		return store, nil

	case BackendPostgres:
		store, err := postgres.Connect(ctx, config.Storage.PostgresDSN,
			postgres.WithSlot(config.Storage.Slot),
			postgres.WithQueryTimeout(config.GetQueryTimeout()),
			postgres.WithWriteTimeout(config.GetWriteTimeout()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return store, nil

	case BackendMemory:
		return repository.NewMemoryStore(), nil
	}
	return nil, &ConfigError{Field: "storage.backend", Message: fmt.Sprintf("unknown backend %q", config.Storage.Backend)}
}

// CreateTestStore creates an in-memory SQLite store for testing
func CreateTestStore(ctx context.Context) (repository.Store, error) {
	store, err := sqlite.New(ctx, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return store, nil
}
