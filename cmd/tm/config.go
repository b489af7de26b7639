package main

import (
	"context"
	"fmt"
	"os"

	"task-manager/internal/config"
	"task-manager/internal/repository"
	"task-manager/internal/repository/sqlite"
)

// Environment represents the current environment
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// StoreFactory opens the task store for an environment
type StoreFactory struct {
	env Environment
}

// NewStoreFactory creates a new store factory for the given environment
func NewStoreFactory(env Environment) *StoreFactory {
	return &StoreFactory{env: env}
}

// Open creates a store instance based on the current environment. It matches
// cli.StoreOpener.
func (sf *StoreFactory) Open(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch sf.env {
	case Development:
		return sf.openDevelopmentStore(ctx, cfg)
	case Testing:
		return repository.NewMemoryStore(), nil
	default:
		return config.CreateStore(ctx, cfg)
	}
}

// openDevelopmentStore keeps tasks in tm.db in the working directory
func (sf *StoreFactory) openDevelopmentStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	store, err := sqlite.New(ctx, "tm.db",
		sqlite.WithSlot(cfg.Storage.Slot),
		sqlite.WithQueryTimeout(cfg.GetQueryTimeout()),
		sqlite.WithWriteTimeout(cfg.GetWriteTimeout()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize development database: %w", err)
	}
	return store, nil
}

// getEnvironment reads TM_ENV, defaulting to production
func getEnvironment() Environment {
	switch Environment(os.Getenv("TM_ENV")) {
	case Development:
		return Development
	case Testing:
		return Testing
	default:
		return Production
	}
}
