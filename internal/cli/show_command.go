package cli

import (
	"context"
	"fmt"

	"task-manager/internal/api"
)

// ShowCommand handles the show command
type ShowCommand struct {
	app *App
	api api.API
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app, api: app.api}
}

// Execute prints every field of one task
func (c *ShowCommand) Execute(ctx context.Context, id string) error {
	task, err := c.api.GetTask(ctx, id)
	if err != nil {
		return NewErrorHandler().Handle("show task", err)
	}
	fmt.Fprint(c.app.out, c.app.renderer.TaskDetail(*task, c.api.Now()))
	return nil
}
