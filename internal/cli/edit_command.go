package cli

import (
	"context"
	"fmt"

	"task-manager/internal/api"
	"task-manager/internal/validation"
)

// EditCommand handles the edit command
type EditCommand struct {
	app *App
	api api.API
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{app: app, api: app.api}
}

// Execute applies patch to the task identified by id
func (c *EditCommand) Execute(ctx context.Context, id string, patch validation.TaskPatch) error {
	task, err := c.api.UpdateTask(ctx, id, patch)
	if err != nil {
		return NewErrorHandler().Handle("edit task", err)
	}

	fmt.Fprintf(c.app.out, "Updated task %s\n", c.app.shortID(ctx, task))
	fmt.Fprint(c.app.out, c.app.renderer.TaskDetail(*task, c.api.Now()))
	return nil
}
