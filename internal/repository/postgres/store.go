// Package postgres keeps the task collection as one row of a PostgreSQL key/value table.
package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/repository"
)

// DefaultTable is the key/value table shared with the SQLite backend's layout
const DefaultTable = "kv_store"

// Store implements repository.Store on PostgreSQL
type Store struct {
	db           *sql.DB
	table        string
	slot         string
	queryTimeout time.Duration
	writeTimeout time.Duration
}

var _ repository.Store = (*Store)(nil)

// Option configures a Store
type Option func(*Store)

// WithSlot sets the key the collection is kept under
func WithSlot(slot string) Option {
	return func(s *Store) {
		if slot != "" {
			s.slot = slot
		}
	}
}

// WithTable overrides the table name
func WithTable(table string) Option {
	return func(s *Store) {
		if table != "" {
			s.table = table
		}
	}
}

// WithQueryTimeout bounds each read
func WithQueryTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.queryTimeout = d
	}
}

// WithWriteTimeout bounds each write and the initial schema setup
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.writeTimeout = d
	}
}

// Connect opens the database, pings it and creates the table if absent
func Connect(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStorageError("open database", err)
	}

	s := &Store{
		db:           db,
		table:        DefaultTable,
		slot:         repository.DefaultSlot,
		queryTimeout: 5 * time.Second,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	setupCtx, cancel := withTimeout(ctx, s.writeTimeout)
	defer cancel()

	if err := db.PingContext(setupCtx); err != nil {
		db.Close()
		return nil, s.handleError("connect", s.writeTimeout, err)
	}
	if _, err := db.ExecContext(setupCtx, s.createTableSQL()); err != nil {
		db.Close()
		return nil, s.handleError("create table", s.writeTimeout, err)
	}

	logging.Debugf("connected to postgres, table %s slot %s", s.table, s.slot)
	return s, nil
}

func (s *Store) quotedTable() string {
	return pq.QuoteIdentifier(s.table)
}

func (s *Store) createTableSQL() string {
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, s.quotedTable())
}

func (s *Store) upsertSQL() string {
	return fmt.Sprintf(`
	INSERT INTO %s (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE SET
		value = EXCLUDED.value,
		updated_at = EXCLUDED.updated_at`, s.quotedTable())
}

// Load returns repository.ErrSlotEmpty when no row exists for the slot
func (s *Store) Load(ctx context.Context) ([]repository.TaskRecord, error) {
	ctx, cancel := withTimeout(ctx, s.queryTimeout)
	defer cancel()

	var value string
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.quotedTable())
	err := s.db.QueryRowContext(ctx, query, s.slot).Scan(&value)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrSlotEmpty
		}
		return nil, s.handleError("load tasks", s.queryTimeout, err)
	}
	return repository.DecodeTasks([]byte(value))
}

// Save upserts the slot row
func (s *Store) Save(ctx context.Context, records []repository.TaskRecord) error {
	data, err := repository.EncodeTasks(records)
	if err != nil {
		return errors.NewStorageError("encode tasks", err)
	}

	ctx, cancel := withTimeout(ctx, s.writeTimeout)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, s.upsertSQL(), s.slot, string(data)); err != nil {
		return s.handleError("save tasks", s.writeTimeout, err)
	}
	return nil
}

// Close closes the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) handleError(operation string, timeout time.Duration, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(operation, timeout.String())
	}
	appErr := errors.NewStorageError(operation, err)
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		appErr = appErr.WithContext("pg_code", string(pqErr.Code)).WithContext("pg_condition", pqErr.Code.Name())
	}
	return appErr
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
