package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/repository"
	"task-manager/internal/validation"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func date(s string) *time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

// sequentialIDs returns an ID source yielding id-1, id-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func setupTaskService(t *testing.T) (TaskService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	factory := domain.NewFactory(
		domain.WithClock(func() time.Time { return fixedNow }),
		domain.WithIDGenerator(sequentialIDs("task")),
	)
	return NewTaskService(store, factory), store
}

func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	restore := logging.SetWarnOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func form(title string) domain.TaskFormData {
	return domain.TaskFormData{
		Title:    title,
		Status:   domain.StatusTodo,
		Priority: domain.PriorityMedium,
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	service, store := setupTaskService(t)
	ctx := context.Background()

	first, err := service.CreateTask(ctx, form("Buy milk"))
	require.NoError(t, err)
	second, err := service.CreateTask(ctx, domain.TaskFormData{
		Title:       "Write report",
		Description: "quarterly",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityHigh,
		DueDate:     date("2024-03-20"),
	})
	require.NoError(t, err)

	assert.Equal(t, "task-1", first.ID)
	assert.Equal(t, "task-2", second.ID)
	assert.Equal(t, fixedNow, first.CreatedAt)
	assert.Equal(t, 2, store.SaveCount())

	tasks, err := service.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Title)
	assert.Equal(t, "Write report", tasks[1].Title)
	assert.Equal(t, domain.PriorityHigh, tasks[1].Priority)
	require.NotNil(t, tasks[1].DueDate)
	assert.Equal(t, "2024-03-20", domain.FormatDate(*tasks[1].DueDate))
}

func TestTaskService_GetTask(t *testing.T) {
	store := repository.NewMemoryStore()
	ids := []string{"0190a1b2-aaaa", "0190a1b2-bbbb", "0190c3d4-cccc"}
	next := 0
	factory := domain.NewFactory(domain.WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))
	service := NewTaskService(store, factory)
	ctx := context.Background()
	for _, title := range []string{"one", "two", "three"} {
		_, err := service.CreateTask(ctx, form(title))
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		id        string
		wantTitle string
		errType   errors.ErrorType
	}{
		{name: "full id", id: "0190a1b2-bbbb", wantTitle: "two"},
		{name: "unique prefix", id: "0190c", wantTitle: "three"},
		{name: "prefix is case insensitive", id: "0190A1B2-A", wantTitle: "one"},
		{name: "surrounding space ignored", id: "  0190c3d4-cccc ", wantTitle: "three"},
		{name: "ambiguous prefix", id: "0190a1b2", errType: errors.ErrorTypeValidation},
		{name: "unknown id", id: "ffff", errType: errors.ErrorTypeNotFound},
		{name: "blank id", id: "  ", errType: errors.ErrorTypeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := service.GetTask(ctx, tt.id)
			if tt.wantTitle == "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorType(err, tt.errType), "got %v", err)
				assert.Nil(t, task)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, task.Title)
		})
	}
}

func TestTaskService_GetTask_AmbiguousPrefixCarriesFieldError(t *testing.T) {
	store := repository.NewMemoryStore()
	factory := domain.NewFactory(domain.WithIDGenerator(sequentialIDs("abc")))
	service := NewTaskService(store, factory)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := service.CreateTask(ctx, form("task"))
		require.NoError(t, err)
	}

	_, err := service.GetTask(ctx, "abc")
	require.Error(t, err)

	ve, ok := validation.AsValidationError(err)
	require.True(t, ok)
	fieldErrors := ve.GetFieldErrors("id")
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, validation.ErrorTypeAmbiguous, fieldErrors[0].Type)
	assert.Contains(t, fieldErrors[0].Message, "matches 3 tasks")
}

func TestTaskService_UpdateTask(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, form("Draft"))
	require.NoError(t, err)
	_, err = service.CreateTask(ctx, form("Other"))
	require.NoError(t, err)

	updated, err := service.UpdateTask(ctx, created.ID, domain.TaskFormData{
		Title:    "Final",
		Status:   domain.StatusCompleted,
		Priority: domain.PriorityLow,
		DueDate:  date("2024-04-01"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, domain.StatusCompleted, updated.Status)

	tasks, err := service.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Final", tasks[0].Title, "position in the collection is kept")
	assert.Equal(t, "Other", tasks[1].Title)
}

func TestTaskService_UpdateTask_NotFound(t *testing.T) {
	service, store := setupTaskService(t)

	_, err := service.UpdateTask(context.Background(), "missing", form("x"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	assert.Equal(t, 0, store.SaveCount())
}

func TestTaskService_DeleteTask(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := service.CreateTask(ctx, form(title))
		require.NoError(t, err)
	}

	deleted, err := service.DeleteTask(ctx, "task-2")
	require.NoError(t, err)
	assert.Equal(t, "b", deleted.Title)

	tasks, err := service.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].Title)
	assert.Equal(t, "c", tasks[1].Title)

	deleted, err = service.DeleteTask(ctx, "task-3")
	require.NoError(t, err)
	assert.Equal(t, "c", deleted.Title)

	_, err = service.DeleteTask(ctx, "task-3")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestTaskService_CycleStatus(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, form("Cycle me"))
	require.NoError(t, err)

	want := []domain.Status{domain.StatusInProgress, domain.StatusCompleted, domain.StatusTodo}
	for _, status := range want {
		task, err := service.CycleStatus(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, status, task.Status)

		stored, err := service.GetTask(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, status, stored.Status)
	}
}

func TestTaskService_SetStatus(t *testing.T) {
	service, store := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, form("Set me"))
	require.NoError(t, err)

	task, err := service.SetStatus(ctx, created.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, task.Status)
	assert.Equal(t, created.Title, task.Title)

	saves := store.SaveCount()
	_, err = service.SetStatus(ctx, created.ID, domain.Status("done"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Equal(t, saves, store.SaveCount())
}

func TestTaskService_LoadFailures(t *testing.T) {
	t.Run("empty slot starts empty without warning", func(t *testing.T) {
		warnings := captureWarnings(t)
		service := NewTaskService(repository.NewMemoryStore(), nil)

		tasks, err := service.ListTasks(context.Background())
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Empty(t, warnings.String())
	})

	t.Run("corrupt slot starts empty with warning", func(t *testing.T) {
		warnings := captureWarnings(t)
		store := repository.NewMemoryStoreWithBlob([]byte(`{not json`))
		service := NewTaskService(store, nil)

		tasks, err := service.ListTasks(context.Background())
		require.NoError(t, err)
		assert.Empty(t, tasks)
		assert.Contains(t, warnings.String(), "warning: stored tasks could not be read")
	})

	t.Run("corrupt slot is replaced on next save", func(t *testing.T) {
		captureWarnings(t)
		store := repository.NewMemoryStoreWithBlob([]byte(`"tasks"`))
		service := NewTaskService(store, nil)

		_, err := service.CreateTask(context.Background(), form("fresh"))
		require.NoError(t, err)

		records, err := store.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "fresh", records[0].Title)
	})

	t.Run("malformed records are skipped and dropped on save", func(t *testing.T) {
		warnings := captureWarnings(t)
		blob := []byte(`[
			{"id":"good","title":"ok","description":"","status":"todo","priority":"low","dueDate":null,"createdAt":"2024-01-01T00:00:00Z"},
			{"id":"bad","title":"nope","description":"","status":"paused","priority":"low","dueDate":null,"createdAt":"2024-01-01T00:00:00Z"}
		]`)
		store := repository.NewMemoryStoreWithBlob(blob)
		service := NewTaskService(store, nil)
		ctx := context.Background()

		tasks, err := service.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "good", tasks[0].ID)
		assert.Contains(t, warnings.String(), `skipping stored task: record 1 (id "bad")`)

		_, err = service.CycleStatus(ctx, "good")
		require.NoError(t, err)
		records, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("duplicate ids keep the first record", func(t *testing.T) {
		warnings := captureWarnings(t)
		blob := []byte(`[
			{"id":"same","title":"first","description":"","status":"todo","priority":"low","dueDate":null,"createdAt":"2024-01-01T00:00:00Z"},
			{"id":"same","title":"second","description":"","status":"completed","priority":"high","dueDate":null,"createdAt":"2024-01-02T00:00:00Z"}
		]`)
		store := repository.NewMemoryStoreWithBlob(blob)
		service := NewTaskService(store, nil)
		ctx := context.Background()

		task, err := service.GetTask(ctx, "same")
		require.NoError(t, err)
		assert.Equal(t, "first", task.Title)
		assert.Contains(t, warnings.String(), `skipping stored task: record 1 (id "same"): duplicate id`)

		_, err = service.DeleteTask(ctx, "same")
		require.NoError(t, err)
		records, err := store.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, records, "the duplicate does not survive the next save")
	})

	t.Run("other errors are returned", func(t *testing.T) {
		service := NewTaskService(repository.NewMemoryStore(), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.ListTasks(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTaskService_ReturnedTasksDoNotAliasStore(t *testing.T) {
	service, _ := setupTaskService(t)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, domain.TaskFormData{
		Title:    "Due",
		Status:   domain.StatusTodo,
		Priority: domain.PriorityMedium,
		DueDate:  date("2024-05-01"),
	})
	require.NoError(t, err)

	*created.DueDate = created.DueDate.AddDate(1, 0, 0)
	created.Title = "changed"

	stored, err := service.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Due", stored.Title)
	assert.Equal(t, "2024-05-01", domain.FormatDate(*stored.DueDate))
}
