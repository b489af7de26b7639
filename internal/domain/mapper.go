package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"task-manager/internal/repository"
)

// TimestampLayout is how CreatedAt is persisted.
const TimestampLayout = time.RFC3339Nano

// ErrDuplicateID marks a stored record whose ID an earlier record already uses.
var ErrDuplicateID = errors.New("duplicate id")

// RecordError describes a stored record that could not be turned into a Task.
type RecordError struct {
	Index int
	ID    string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (id %q): %v", e.Index, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// TaskMapper handles conversion between domain tasks and stored records.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToRecord converts a domain Task to its stored form.
func (m *TaskMapper) ToRecord(task Task) repository.TaskRecord {
	record := repository.TaskRecord{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		CreatedAt:   task.CreatedAt.UTC().Format(TimestampLayout),
	}
	if task.DueDate != nil {
		due := FormatDate(*task.DueDate)
		record.DueDate = &due
	}
	return record
}

// FromRecord converts a stored record to a domain Task, rejecting records
// with a missing ID, out-of-range enums or unparseable dates.
func (m *TaskMapper) FromRecord(record repository.TaskRecord) (Task, error) {
	if strings.TrimSpace(record.ID) == "" {
		return Task{}, fmt.Errorf("missing id")
	}
	status, err := ParseStatus(record.Status)
	if err != nil {
		return Task{}, err
	}
	priority, err := ParsePriority(record.Priority)
	if err != nil {
		return Task{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, record.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("invalid createdAt %q: %w", record.CreatedAt, err)
	}

	task := Task{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		Status:      status,
		Priority:    priority,
		CreatedAt:   createdAt.UTC(),
	}
	if record.DueDate != nil && strings.TrimSpace(*record.DueDate) != "" {
		due, err := ParseDate(*record.DueDate)
		if err != nil {
			return Task{}, err
		}
		task.DueDate = &due
	}
	return task, nil
}

// ToRecordSlice converts a slice of domain Tasks to stored records.
func (m *TaskMapper) ToRecordSlice(tasks []Task) []repository.TaskRecord {
	records := make([]repository.TaskRecord, len(tasks))
	for i, task := range tasks {
		records[i] = m.ToRecord(task)
	}
	return records
}

// FromRecordSlice converts stored records to Tasks. Malformed records, and
// records repeating the ID of an earlier kept record, are left out of the
// result and reported, one RecordError each.
func (m *TaskMapper) FromRecordSlice(records []repository.TaskRecord) ([]Task, []*RecordError) {
	tasks := make([]Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	var rejected []*RecordError
	for i, record := range records {
		task, err := m.FromRecord(record)
		if err == nil && seen[task.ID] {
			err = ErrDuplicateID
		}
		if err != nil {
			rejected = append(rejected, &RecordError{Index: i, ID: record.ID, Err: err})
			continue
		}
		seen[task.ID] = true
		tasks = append(tasks, task)
	}
	return tasks, rejected
}
