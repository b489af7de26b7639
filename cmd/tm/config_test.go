package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/config"
	"task-manager/internal/repository"
)

func TestGetEnvironment(t *testing.T) {
	tests := []struct {
		value    string
		expected Environment
	}{
		{value: "development", expected: Development},
		{value: "testing", expected: Testing},
		{value: "production", expected: Production},
		{value: "", expected: Production},
		{value: "staging", expected: Production},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TM_ENV", tt.value)
			assert.Equal(t, tt.expected, getEnvironment())
		})
	}
}

func TestStoreFactory_Testing(t *testing.T) {
	store, err := NewStoreFactory(Testing).Open(context.Background(), config.NewConfig())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &repository.MemoryStore{}, store)
}

func TestStoreFactory_ProductionUsesConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Storage.Backend = config.BackendFile
	cfg.Storage.Dir = t.TempDir()

	store, err := NewStoreFactory(Production).Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	records := []repository.TaskRecord{{
		ID:        "0190",
		Title:     "Persisted",
		Status:    "todo",
		Priority:  "medium",
		CreatedAt: "2024-03-15T10:00:00Z",
	}}
	require.NoError(t, store.Save(context.Background(), records))
	assert.FileExists(t, filepath.Join(cfg.Storage.Dir, cfg.Storage.Slot+".json"))
}
