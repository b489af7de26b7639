package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-manager/internal/config"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository"
	"task-manager/internal/services"
	"task-manager/internal/validation"
)

var testNow = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// steppingClock advances a minute per call so creation order is visible in CreatedAt
func steppingClock() func() time.Time {
	now := testNow
	return func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
}

func setupTestAPI(t *testing.T) API {
	t.Helper()
	store, err := config.CreateTestStore(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, config.NewConfig(), services.WithClock(steppingClock()))
}

func assertErrorType(t *testing.T, err error, errorType errors.ErrorType) {
	t.Helper()
	require.Error(t, err)
	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.IsType(errorType), "got %v", err)
}

func TestAPI_CRUD_Task(t *testing.T) {
	api := setupTestAPI(t)
	ctx := context.Background()

	// Create
	task, err := api.CreateTask(ctx, validation.TaskInput{
		Title:    "  Buy milk ",
		Priority: "High",
		DueDate:  "2024-03-20",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, domain.StatusTodo, task.Status)
	assert.Equal(t, domain.PriorityHigh, task.Priority)

	// Get by prefix
	got, err := api.GetTask(ctx, task.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	// Update only the description
	updated, err := api.UpdateTask(ctx, task.ID, validation.TaskPatch{Description: strPtr("semi-skimmed")})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", updated.Title)
	assert.Equal(t, "semi-skimmed", updated.Description)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2024-03-20", domain.FormatDate(*updated.DueDate))
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)

	// Clear the due date
	updated, err = api.UpdateTask(ctx, task.ID, validation.TaskPatch{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)

	// List
	tasks, err := api.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "semi-skimmed", tasks[0].Description)

	// Delete
	deleted, err := api.DeleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)

	_, err = api.GetTask(ctx, task.ID)
	assertErrorType(t, err, errors.ErrorTypeNotFound)
}

func TestAPI_CreateTask_Validation(t *testing.T) {
	tests := []struct {
		name   string
		input  validation.TaskInput
		fields []string
	}{
		{name: "blank title", input: validation.TaskInput{Title: "   "}, fields: []string{"title"}},
		{name: "unknown status", input: validation.TaskInput{Title: "x", Status: "paused"}, fields: []string{"status"}},
		{name: "unknown priority", input: validation.TaskInput{Title: "x", Priority: "urgent"}, fields: []string{"priority"}},
		{name: "bad due date", input: validation.TaskInput{Title: "x", DueDate: "15/03/2024"}, fields: []string{"due_date"}},
		{
			name:   "all problems reported together",
			input:  validation.TaskInput{Title: "", Status: "nope", Priority: "nope", DueDate: "nope"},
			fields: []string{"title", "status", "priority", "due_date"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := setupTestAPI(t)

			task, err := api.CreateTask(context.Background(), tt.input)
			assert.Nil(t, task)
			assertErrorType(t, err, errors.ErrorTypeValidation)

			ve, ok := validation.AsValidationError(err)
			require.True(t, ok)
			for _, field := range tt.fields {
				assert.NotEmpty(t, ve.GetFieldErrors(field), "expected error for %s", field)
			}

			tasks, err := api.ListTasks(context.Background())
			require.NoError(t, err)
			assert.Empty(t, tasks)
		})
	}
}

func TestAPI_UpdateTask_Errors(t *testing.T) {
	api := setupTestAPI(t)
	ctx := context.Background()

	task, err := api.CreateTask(ctx, validation.TaskInput{Title: "Keep me"})
	require.NoError(t, err)

	_, err = api.UpdateTask(ctx, task.ID, validation.TaskPatch{})
	assertErrorType(t, err, errors.ErrorTypeInvalidInput)

	_, err = api.UpdateTask(ctx, task.ID, validation.TaskPatch{Title: strPtr("")})
	assertErrorType(t, err, errors.ErrorTypeValidation)

	_, err = api.UpdateTask(ctx, task.ID, validation.TaskPatch{Status: strPtr(" ")})
	assertErrorType(t, err, errors.ErrorTypeValidation)

	_, err = api.UpdateTask(ctx, "nope", validation.TaskPatch{Title: strPtr("x")})
	assertErrorType(t, err, errors.ErrorTypeNotFound)

	got, err := api.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep me", got.Title)
}

func TestAPI_StatusWorkflow(t *testing.T) {
	api := setupTestAPI(t)
	ctx := context.Background()

	task, err := api.CreateTask(ctx, validation.TaskInput{Title: "Flow"})
	require.NoError(t, err)

	cycled, err := api.CycleStatus(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, cycled.Status)

	set, err := api.SetStatus(ctx, task.ID, "Completed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, set.Status)

	cycled, err = api.CycleStatus(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, cycled.Status)

	_, err = api.SetStatus(ctx, task.ID, "done")
	assertErrorType(t, err, errors.ErrorTypeValidation)

	_, err = api.CycleStatus(ctx, "")
	assertErrorType(t, err, errors.ErrorTypeValidation)
}

func TestAPI_ListView(t *testing.T) {
	api := setupTestAPI(t)
	ctx := context.Background()

	inputs := []validation.TaskInput{
		{Title: "Buy milk", Priority: "low", DueDate: "2024-03-18"},
		{Title: "Buy bread", Status: "completed", Priority: "high"},
		{Title: "Call mum", Description: "about milk", Status: "in-progress", DueDate: "2024-03-16"},
	}
	for _, input := range inputs {
		_, err := api.CreateTask(ctx, input)
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		req  ViewRequest
		want []string
	}{
		{name: "default is newest first", req: ViewRequest{}, want: []string{"Call mum", "Buy bread", "Buy milk"}},
		{name: "explicit ascending", req: ViewRequest{Ascending: boolPtr(true)}, want: []string{"Buy milk", "Buy bread", "Call mum"}},
		{name: "search", req: ViewRequest{Search: "milk"}, want: []string{"Call mum", "Buy milk"}},
		{name: "search keeps surrounding spaces", req: ViewRequest{Search: "milk "}, want: []string{}},
		{name: "leading space matches word starts", req: ViewRequest{Search: " milk"}, want: []string{"Call mum", "Buy milk"}},
		{name: "blank search is unrestricted", req: ViewRequest{Search: "   "}, want: []string{"Call mum", "Buy bread", "Buy milk"}},
		{name: "status filter", req: ViewRequest{Statuses: []string{"todo", "in progress"}, Sort: "title", Ascending: boolPtr(true)}, want: []string{"Buy milk", "Call mum"}},
		{name: "due date ascending", req: ViewRequest{Sort: "due-date", Ascending: boolPtr(true)}, want: []string{"Call mum", "Buy milk", "Buy bread"}},
		{name: "priority descending", req: ViewRequest{Sort: "priority"}, want: []string{"Buy bread", "Call mum", "Buy milk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := api.ListView(ctx, tt.req)
			require.NoError(t, err)
			titles := make([]string, len(tasks))
			for i, task := range tasks {
				titles[i] = task.Title
			}
			assert.Equal(t, tt.want, titles)
		})
	}

	_, err := api.ListView(ctx, ViewRequest{Sort: "size"})
	assertErrorType(t, err, errors.ErrorTypeValidation)

	_, err = api.ListView(ctx, ViewRequest{Statuses: []string{"blocked"}})
	assertErrorType(t, err, errors.ErrorTypeValidation)
}

func TestAPI_ListView_ConfiguredDefault(t *testing.T) {
	cfg := config.NewConfig()
	cfg.View.DefaultSort = "title"
	cfg.View.DefaultAscending = true
	api := New(repository.NewMemoryStore(), cfg)
	ctx := context.Background()

	for _, title := range []string{"cherry", "Apple", "banana"} {
		_, err := api.CreateTask(ctx, validation.TaskInput{Title: title})
		require.NoError(t, err)
	}

	tasks, err := api.ListView(ctx, ViewRequest{})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "Apple", tasks[0].Title)
	assert.Equal(t, "banana", tasks[1].Title)
	assert.Equal(t, "cherry", tasks[2].Title)
}

func TestAPI_ValidationLimitsFromConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.TitleMaxLength = 5
	api := New(repository.NewMemoryStore(), cfg)

	_, err := api.CreateTask(context.Background(), validation.TaskInput{Title: "too long"})
	assertErrorType(t, err, errors.ErrorTypeValidation)

	_, err = api.CreateTask(context.Background(), validation.TaskInput{Title: "short"})
	assert.NoError(t, err)
}

func TestAPI_Summary(t *testing.T) {
	store := repository.NewMemoryStore()
	api := New(store, nil, services.WithClock(func() time.Time { return testNow }))
	ctx := context.Background()

	inputs := []validation.TaskInput{
		{Title: "overdue", DueDate: "2024-03-01"},
		{Title: "today", Priority: "high", DueDate: "2024-03-15"},
		{Title: "done", Status: "completed", DueDate: "2024-03-01"},
	}
	for _, input := range inputs {
		_, err := api.CreateTask(ctx, input)
		require.NoError(t, err)
	}

	summary, err := api.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Overdue)
	assert.Equal(t, 1, summary.DueToday)
	assert.Equal(t, 2, summary.ByStatus[domain.StatusTodo])
	assert.Equal(t, 1, summary.ByPriority[domain.PriorityHigh])
	assert.Equal(t, testNow, api.Now())
}
