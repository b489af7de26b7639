package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"task-manager/internal/cli"
	"task-manager/internal/errors"
)

func main() {
	factory := NewStoreFactory(getEnvironment())
	root := cli.NewRootCommand(factory.Open)

	// Each command bounds its own work with the configured timeout
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		eh := cli.NewErrorHandler()
		fmt.Fprintf(os.Stderr, "Error: %v\n", eh.HandleSimple(err))
		if appErr, ok := errors.AsAppError(err); ok && errors.ShouldLogError(err) && os.Getenv("TM_APP_VERBOSE") == "true" {
			fmt.Fprintf(os.Stderr, "Details [%s]: %v\n", eh.GetErrorCode(err), appErr)
		}
		stop()
		os.Exit(eh.ExitCode(err))
	}
}
