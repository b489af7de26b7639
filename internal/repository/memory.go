package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps the encoded slot in memory. It goes through the same
// codec as the durable stores so tests see identical round trips.
type MemoryStore struct {
	mu    sync.Mutex
	blob  []byte
	saves int
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// NewMemoryStoreWithBlob seeds the slot with raw bytes, valid or not
func NewMemoryStoreWithBlob(blob []byte) *MemoryStore {
	return &MemoryStore{blob: append([]byte(nil), blob...)}
}

// Load decodes the slot
func (m *MemoryStore) Load(ctx context.Context) ([]TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.blob == nil {
		return nil, ErrSlotEmpty
	}
	return DecodeTasks(m.blob)
}

// Save encodes and replaces the slot
func (m *MemoryStore) Save(ctx context.Context, records []TaskRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := EncodeTasks(records)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = data
	m.saves++
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}

// Blob returns a copy of the raw slot contents
func (m *MemoryStore) Blob() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.blob...)
}

// SaveCount reports how many times Save succeeded
func (m *MemoryStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
