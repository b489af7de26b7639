package cli

import (
	"context"
	"io"
	"os"

	"task-manager/internal/api"
	"task-manager/internal/config"
	"task-manager/internal/domain"
)

// App represents the main CLI application
type App struct {
	api      api.API
	config   *config.Config
	out      io.Writer
	errOut   io.Writer
	in       io.Reader
	renderer *Renderer
}

// NewApp creates a new CLI application writing to stdout and reading from stdin
func NewApp(api api.API, cfg *config.Config) *App {
	return NewAppWithIO(api, cfg, os.Stdout, os.Stderr, os.Stdin)
}

// NewAppWithIO creates a new CLI application with explicit streams
func NewAppWithIO(api api.API, cfg *config.Config, out, errOut io.Writer, in io.Reader) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		api:      api,
		config:   cfg,
		out:      out,
		errOut:   errOut,
		in:       in,
		renderer: NewRenderer(out, cfg.Display),
	}
}

// shortIDs returns display IDs that stay unique across the whole collection
func (a *App) shortIDs(ctx context.Context) (map[string]string, error) {
	all, err := a.api.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(all))
	for i, task := range all {
		ids[i] = task.ID
	}
	return ShortIDs(ids, minShortIDLength), nil
}

// shortID is shortIDs for a single task
func (a *App) shortID(ctx context.Context, task *domain.Task) string {
	ids, err := a.shortIDs(ctx)
	if err != nil {
		return task.ID
	}
	if short, ok := ids[task.ID]; ok {
		return short
	}
	return task.ID
}
