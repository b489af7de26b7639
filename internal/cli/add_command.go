package cli

import (
	"context"
	"fmt"
	"strings"

	"task-manager/internal/api"
	"task-manager/internal/validation"
)

// AddCommand handles the add command
type AddCommand struct {
	app *App
	api api.API
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app, api: app.api}
}

// Execute creates a task titled by the joined args
func (c *AddCommand) Execute(ctx context.Context, args []string, input validation.TaskInput) error {
	input.Title = strings.Join(args, " ")

	task, err := c.api.CreateTask(ctx, input)
	if err != nil {
		return NewErrorHandler().Handle("add task", err)
	}

	shortID := c.app.shortID(ctx, task)
	fmt.Fprintf(c.app.out, "Added task %s\n", shortID)
	fmt.Fprint(c.app.out, c.app.renderer.TaskLine(*task, shortID, c.api.Now()))
	return nil
}
