package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"task-manager/internal/errors"
	"task-manager/internal/repository"
)

// HandleDatabaseError converts database errors to structured app errors.
// Deadline failures become timeout errors.
func HandleDatabaseError(operation string, timeout time.Duration, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(operation, timeout.String())
	}
	return errors.NewStorageError(operation, err)
}

// HandleNoRowsError maps sql.ErrNoRows to repository.ErrSlotEmpty
func HandleNoRowsError(err error) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return repository.ErrSlotEmpty
	}
	return err
}

// WithTimeout bounds ctx by d. A zero d leaves ctx unbounded.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// QuerySingle executes a query that returns a single row and scans it
func QuerySingle[T any](ctx context.Context, db *sql.DB, timeout time.Duration, query string, scanFunc func(Scanner) (*T, error), operation string, args ...interface{}) (*T, error) {
	ctx, cancel := WithTimeout(ctx, timeout)
	defer cancel()

	row := db.QueryRowContext(ctx, query, args...)
	result, err := scanFunc(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, HandleNoRowsError(err)
		}
		return nil, HandleDatabaseError(operation, timeout, err)
	}
	return result, nil
}

// ExecuteInTx runs fn inside a transaction, committing on success
func ExecuteInTx(ctx context.Context, db *sql.DB, timeout time.Duration, operation string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := WithTimeout(ctx, timeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError(operation, timeout, err)
	}

	if err := fn(ctx, tx); err != nil {
		tx.Rollback()
		return HandleDatabaseError(operation, timeout, err)
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError(operation, timeout, err)
	}
	return nil
}
