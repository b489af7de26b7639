package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/repository"
	"task-manager/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Store keeps the task collection as one JSON blob in the kv_store table
type Store struct {
	db           *sql.DB
	slot         string
	queryTimeout time.Duration
	writeTimeout time.Duration
}

var _ repository.Store = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithSlot sets the kv_store key the collection is kept under
func WithSlot(slot string) Option {
	return func(s *Store) {
		if slot != "" {
			s.slot = slot
		}
	}
}

// WithQueryTimeout bounds each read
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.queryTimeout = d
	}
}

// WithWriteTimeout bounds each write
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.writeTimeout = d
	}
}

// New opens (creating if needed) the database at dbPath and runs migrations.
// dbPath may be ":memory:".
func New(ctx context.Context, dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	s := &Store{
		db:           db,
		slot:         repository.DefaultSlot,
		queryTimeout: 5 * time.Second,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	migrateCtx, cancel := WithTimeout(ctx, s.writeTimeout)
	defer cancel()
	if err := migrations.RunMigrations(migrateCtx, db); err != nil {
		db.Close()
		return nil, HandleDatabaseError("run migrations", s.writeTimeout, err)
	}

	return s, nil
}

// Load returns the stored collection, repository.ErrSlotEmpty if nothing has
// been saved under the slot, or an error wrapping repository.ErrCorruptSlot.
func (s *Store) Load(ctx context.Context) ([]repository.TaskRecord, error) {
	slot, err := s.getSlot(ctx)
	if err != nil {
		return nil, err
	}
	logging.Debugf("loaded slot %s, last saved %s", slot.Key, slot.UpdatedAt.Local().Format(time.RFC3339))
	return repository.DecodeTasks([]byte(slot.Value))
}

// Save replaces the stored collection
func (s *Store) Save(ctx context.Context, records []repository.TaskRecord) error {
	data, err := repository.EncodeTasks(records)
	if err != nil {
		return errors.NewStorageError("encode tasks", err)
	}

	query := `
	INSERT INTO kv_store (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	return ExecuteInTx(ctx, s.db, s.writeTimeout, "save tasks", func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, query, s.slot, string(data), FormatTimeForDB(time.Now()))
		return err
	})
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) getSlot(ctx context.Context) (*Slot, error) {
	query := `SELECT key, value, updated_at FROM kv_store WHERE key = ?`
	slot, err := QuerySingle(ctx, s.db, s.queryTimeout, query, ScanSlot, "load tasks", s.slot)
	if err != nil {
		if stderrors.Is(err, repository.ErrSlotEmpty) {
			return nil, repository.ErrSlotEmpty
		}
		return nil, err
	}
	return slot, nil
}
