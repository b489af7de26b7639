package cli

import (
	"context"
	"fmt"

	"task-manager/internal/api"
	"task-manager/internal/domain"
)

// StatusCommand handles the status command
type StatusCommand struct {
	app *App
	api api.API
}

// NewStatusCommand creates a new status command handler
func NewStatusCommand(app *App) *StatusCommand {
	return &StatusCommand{app: app, api: app.api}
}

// Execute sets the task's status, or advances it one step when status is empty
func (c *StatusCommand) Execute(ctx context.Context, id string, status string) error {
	var (
		task *domain.Task
		err  error
	)
	if status == "" {
		task, err = c.api.CycleStatus(ctx, id)
	} else {
		task, err = c.api.SetStatus(ctx, id, status)
	}
	if err != nil {
		return NewErrorHandler().Handle("change status", err)
	}

	fmt.Fprintf(c.app.out, "%s is now %s\n", task.Title, c.app.renderer.StatusBadge(task.Status))
	return nil
}
