package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"task-manager/internal/errors"
	"task-manager/internal/repository"
)

func TestHandleDatabaseError(t *testing.T) {
	originalErr := stderrors.New("database connection failed")
	result := HandleDatabaseError("test operation", time.Second, originalErr)

	assert.True(t, errors.IsErrorType(result, errors.ErrorTypeStorage))
	assert.Contains(t, result.Error(), "test operation")
	assert.Contains(t, result.Error(), "database connection failed")
}

func TestHandleDatabaseError_Deadline(t *testing.T) {
	result := HandleDatabaseError("load tasks", 2*time.Second, context.DeadlineExceeded)

	assert.True(t, errors.IsErrorType(result, errors.ErrorTypeTimeout))
	appErr, ok := errors.AsAppError(result)
	require.True(t, ok)
	assert.Equal(t, "2s", appErr.Context["timeout"])
}

func TestHandleNoRowsError(t *testing.T) {
	assert.ErrorIs(t, HandleNoRowsError(sql.ErrNoRows), repository.ErrSlotEmpty)

	other := stderrors.New("some other error")
	assert.Equal(t, other, HandleNoRowsError(other))
}

func TestWithTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 0)
	defer cancel()
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)

	ctx, cancel = WithTimeout(context.Background(), time.Minute)
	defer cancel()
	deadline, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestExecuteInTx_RollsBackOnError(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	err := ExecuteInTx(ctx, store.db, time.Second, "failing write", func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO kv_store (key, value, updated_at) VALUES ('tasks', '[]', ?)`, FormatTimeForDB(time.Now())); err != nil {
			return err
		}
		return stderrors.New("boom")
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrSlotEmpty)
}
