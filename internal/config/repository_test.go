package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"task-manager/internal/repository"
	"task-manager/internal/repository/file"
	"task-manager/internal/repository/sqlite"
)

func roundTrip(t *testing.T, store repository.Store) {
	ctx := context.Background()
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)

	records := []repository.TaskRecord{{ID: "1", Title: "Test Task", Status: "todo", Priority: "low", CreatedAt: "2024-01-01T00:00:00Z"}}
	require.NoError(t, store.Save(ctx, records))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestCreateStore_SQLite(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Dir = filepath.Join(t.TempDir(), "nested")

	store, err := CreateStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &sqlite.Store{}, store)
	roundTrip(t, store)

	_, err = os.Stat(filepath.Join(cfg.Storage.Dir, "tm.db"))
	assert.NoError(t, err)
}

func TestCreateStore_File(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Backend = BackendFile
	cfg.Storage.Dir = t.TempDir()

	store, err := CreateStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &file.Store{}, store)
	roundTrip(t, store)
	assert.FileExists(t, filepath.Join(cfg.Storage.Dir, "tasks.json"))
}

func TestCreateStore_Memory(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Backend = BackendMemory

	store, err := CreateStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &repository.MemoryStore{}, store)
	roundTrip(t, store)
}

func TestCreateStore_UnknownBackend(t *testing.T) {
	cfg := NewConfig()
	cfg.Storage.Backend = "tape"

	_, err := CreateStore(context.Background(), cfg)
	var configErr *ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestCreateTestStore(t *testing.T) {
	store, err := CreateTestStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	roundTrip(t, store)
}
