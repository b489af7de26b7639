package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"task-manager/internal/api"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
	api api.API
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app, api: app.api}
}

// Execute deletes the task identified by id, asking first unless skipConfirm is set
func (c *DeleteCommand) Execute(ctx context.Context, id string, skipConfirm bool) error {
	task, err := c.api.GetTask(ctx, id)
	if err != nil {
		return NewErrorHandler().Handle("delete task", err)
	}

	if !skipConfirm {
		fmt.Fprintf(c.app.out, "Delete task %q? This cannot be undone. [y/N]: ", task.Title)

		// Read user input; end of input without an answer means no
		input, err := bufio.NewReader(c.app.in).ReadString('\n')
		if err != nil && !stderrors.Is(err, io.EOF) {
			fmt.Fprintln(c.app.out)
			return NewErrorHandler().Handle("read confirmation", err)
		}
		answer := strings.ToLower(strings.TrimSpace(input))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(c.app.out, "Delete cancelled.")
			return nil
		}
	}

	deleted, err := c.api.DeleteTask(ctx, task.ID)
	if err != nil {
		return NewErrorHandler().Handle("delete task", err)
	}

	fmt.Fprintf(c.app.out, "Deleted task: %s\n", deleted.Title)
	return nil
}
