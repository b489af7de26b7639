package cli

import (
	"context"
	"fmt"
	"strings"

	"task-manager/internal/api"
)

// ListCommand handles the list command
type ListCommand struct {
	app *App
	api api.API
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app, api: app.api}
}

// Execute lists the tasks matching req. Any args are joined into the search term.
func (c *ListCommand) Execute(ctx context.Context, args []string, req api.ViewRequest) error {
	if len(args) > 0 {
		req.Search = strings.Join(args, " ")
	}

	tasks, err := c.api.ListView(ctx, req)
	if err != nil {
		return NewErrorHandler().Handle("list tasks", err)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(c.app.out, "No tasks found")
		if req.Search == "" && len(req.Statuses) == 0 {
			fmt.Fprintln(c.app.out, "Create a new task to get started: tm add \"My task\"")
		}
		return nil
	}

	ids, err := c.app.shortIDs(ctx)
	if err != nil {
		return NewErrorHandler().Handle("list tasks", err)
	}

	now := c.api.Now()
	for _, task := range tasks {
		fmt.Fprint(c.app.out, c.app.renderer.TaskLine(task, ids[task.ID], now))
	}
	return nil
}
