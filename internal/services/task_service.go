package services

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/repository"
	"task-manager/internal/validation"
)

// taskServiceImpl implements the TaskService interface.
// The store holds the only copy of the collection; every call reloads it.
type taskServiceImpl struct {
	mu      sync.Mutex
	store   repository.Store
	mapper  *domain.TaskMapper
	factory *domain.Factory
}

// NewTaskService creates a new TaskService instance
func NewTaskService(store repository.Store, factory *domain.Factory) TaskService {
	if factory == nil {
		factory = domain.NewFactory()
	}
	return &taskServiceImpl{
		store:   store,
		mapper:  domain.NewTaskMapper(),
		factory: factory,
	}
}

// load reads the collection, treating unreadable data as no tasks
func (t *taskServiceImpl) load(ctx context.Context) ([]domain.Task, error) {
	records, err := t.store.Load(ctx)
	switch {
	case err == nil:
	case stderrors.Is(err, repository.ErrSlotEmpty):
		logging.Debugln("no stored tasks, starting empty")
		return []domain.Task{}, nil
	case errors.IsErrorType(err, errors.ErrorTypeCorruptData):
		logging.Warnf("stored tasks could not be read, starting empty: %v", err)
		return []domain.Task{}, nil
	default:
		return nil, err
	}

	tasks, rejected := t.mapper.FromRecordSlice(records)
	for _, recErr := range rejected {
		logging.Warnf("skipping stored task: %v", recErr)
	}
	return tasks, nil
}

func (t *taskServiceImpl) save(ctx context.Context, tasks []domain.Task) error {
	return t.store.Save(ctx, t.mapper.ToRecordSlice(tasks))
}

// find returns the index of the task whose ID equals idOrPrefix or, failing
// that, the only task whose ID starts with it
func (t *taskServiceImpl) find(tasks []domain.Task, idOrPrefix string) (int, error) {
	key := strings.ToLower(strings.TrimSpace(idOrPrefix))
	if key == "" {
		return -1, errors.NewValidationError("task id cannot be empty", nil)
	}

	match := -1
	count := 0
	for i, task := range tasks {
		id := strings.ToLower(task.ID)
		if id == key {
			return i, nil
		}
		if strings.HasPrefix(id, key) {
			match = i
			count++
		}
	}

	switch count {
	case 0:
		return -1, errors.NewNotFoundError("task", idOrPrefix)
	case 1:
		return match, nil
	default:
		ve := validation.NewValidationError()
		ve.AddAmbiguousError("id", idOrPrefix, count)
		return -1, errors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
	}
}

// mutate loads the collection, lets change edit it and saves the result.
// change returns the index of the task it touched.
func (t *taskServiceImpl) mutate(ctx context.Context, idOrPrefix string, change func(tasks []domain.Task, i int) []domain.Task) (*domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tasks, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	i, err := t.find(tasks, idOrPrefix)
	if err != nil {
		return nil, err
	}
	touched := tasks[i]

	tasks = change(tasks, i)
	if i < len(tasks) && tasks[i].ID == touched.ID {
		touched = tasks[i]
	}

	if err := t.save(ctx, tasks); err != nil {
		return nil, err
	}
	return &touched, nil
}

// ListTasks returns the collection in insertion order
func (t *taskServiceImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

// GetTask retrieves a task by its ID or a unique ID prefix
func (t *taskServiceImpl) GetTask(ctx context.Context, idOrPrefix string) (*domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tasks, err := t.load(ctx)
	if err != nil {
		return nil, err
	}
	i, err := t.find(tasks, idOrPrefix)
	if err != nil {
		return nil, err
	}
	task := tasks[i]
	return &task, nil
}

// CreateTask builds a task from form and appends it to the collection
func (t *taskServiceImpl) CreateTask(ctx context.Context, form domain.TaskFormData) (*domain.Task, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tasks, err := t.load(ctx)
	if err != nil {
		return nil, err
	}

	task := t.factory.Create(form)
	tasks = append(tasks, task)
	if err := t.save(ctx, tasks); err != nil {
		return nil, err
	}

	logging.Debugf("created task %s", task.ID)
	return &task, nil
}

// UpdateTask replaces a task's editable fields, keeping its ID and CreatedAt
func (t *taskServiceImpl) UpdateTask(ctx context.Context, idOrPrefix string, form domain.TaskFormData) (*domain.Task, error) {
	return t.mutate(ctx, idOrPrefix, func(tasks []domain.Task, i int) []domain.Task {
		tasks[i] = tasks[i].Apply(form)
		return tasks
	})
}

// DeleteTask removes a task and returns it
func (t *taskServiceImpl) DeleteTask(ctx context.Context, idOrPrefix string) (*domain.Task, error) {
	return t.mutate(ctx, idOrPrefix, func(tasks []domain.Task, i int) []domain.Task {
		return append(tasks[:i:i], tasks[i+1:]...)
	})
}

// SetStatus moves a task to status
func (t *taskServiceImpl) SetStatus(ctx context.Context, idOrPrefix string, status domain.Status) (*domain.Task, error) {
	if !status.Valid() {
		return nil, errors.NewInvalidInputError("status", status, "must be one of todo, in-progress, completed")
	}
	return t.mutate(ctx, idOrPrefix, func(tasks []domain.Task, i int) []domain.Task {
		tasks[i] = tasks[i].WithStatus(status)
		return tasks
	})
}

// CycleStatus advances a task to the next status: todo, in-progress, completed, todo
func (t *taskServiceImpl) CycleStatus(ctx context.Context, idOrPrefix string) (*domain.Task, error) {
	return t.mutate(ctx, idOrPrefix, func(tasks []domain.Task, i int) []domain.Task {
		tasks[i] = tasks[i].WithStatus(tasks[i].Status.Next())
		return tasks
	})
}
