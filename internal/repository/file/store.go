// Package file keeps the task collection in a single JSON file.
package file

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/repository"
)

// Store reads and writes one JSON file. Writes go to a temp file in the same
// directory that is then renamed over the target.
type Store struct {
	path string
}

var _ repository.Store = (*Store)(nil)

// New returns a Store for path, creating its directory with dirPerm if needed
func New(path string, dirPerm fs.FileMode) (*Store, error) {
	if dirPerm == 0 {
		dirPerm = 0o755
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, errors.NewStorageError("create data directory", err)
	}
	return &Store{path: path}, nil
}

// Load returns repository.ErrSlotEmpty when the file is missing or blank
func (s *Store) Load(ctx context.Context) ([]repository.TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, repository.ErrSlotEmpty
		}
		return nil, errors.NewStorageError("read tasks file", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, repository.ErrSlotEmpty
	}
	return repository.DecodeTasks(data)
}

// Save atomically replaces the file contents
func (s *Store) Save(ctx context.Context, records []repository.TaskRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := repository.EncodeTasks(records)
	if err != nil {
		return errors.NewStorageError("encode tasks", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errors.NewStorageError("create temp file", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op after a successful rename
		os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.NewStorageError("write tasks file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.NewStorageError("sync tasks file", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewStorageError("close tasks file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return errors.NewStorageError("replace tasks file", err)
	}

	logging.Debugf("saved %d tasks to %s", len(records), s.path)
	return nil
}

// Close is a no-op; the file is not held open between calls
func (s *Store) Close() error {
	return nil
}
