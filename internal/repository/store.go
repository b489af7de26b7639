package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "task-manager/internal/errors"
)

// DefaultSlot is the key under which the task collection is stored
const DefaultSlot = "tasks"

var (
	// ErrSlotEmpty is returned by Load when nothing has been saved yet
	ErrSlotEmpty = errors.New("slot is empty")

	// ErrCorruptSlot matches, through errors.Is, any error for a stored blob
	// that cannot be decoded
	ErrCorruptSlot = apperrors.NewCorruptDataError("task slot", nil)
)

// TaskRecord is the serialized form of a task.
// DueDate is a calendar date (YYYY-MM-DD) or null; CreatedAt is RFC 3339.
type TaskRecord struct {
	ID          string  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Status      string  `json:"status" yaml:"status"`
	Priority    string  `json:"priority" yaml:"priority"`
	DueDate     *string `json:"dueDate" yaml:"dueDate"`
	CreatedAt   string  `json:"createdAt" yaml:"createdAt"`
}

// Store persists the whole task collection in a single named slot.
// Save replaces the slot; the last write wins.
type Store interface {
	Load(ctx context.Context) ([]TaskRecord, error)
	Save(ctx context.Context, records []TaskRecord) error
	Close() error
}

// EncodeTasks serializes a collection for storage
func EncodeTasks(records []TaskRecord) ([]byte, error) {
	if records == nil {
		records = []TaskRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return data, nil
}

// DecodeTasks parses a stored blob. Anything that is not a JSON array of
// records yields ErrCorruptSlot.
func DecodeTasks(data []byte) ([]TaskRecord, error) {
	var records []TaskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, apperrors.NewCorruptDataError("task slot", err)
	}
	if records == nil {
		records = []TaskRecord{}
	}
	return records, nil
}
