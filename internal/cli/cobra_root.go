package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"task-manager/internal/api"
	"task-manager/internal/config"
	"task-manager/internal/repository"
	"task-manager/internal/services"
	"task-manager/internal/validation"
)

// StoreOpener opens the task store described by cfg
type StoreOpener func(ctx context.Context, cfg *config.Config) (repository.Store, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd            *cobra.Command
	opener         StoreOpener
	serviceOptions []services.Option
	config         *config.Config
	store          repository.Store
	app            *App
}

// RootOption configures a RootCommand
type RootOption func(*RootCommand)

// WithServiceOptions passes options through to the services, e.g. a fixed clock
func WithServiceOptions(opts ...services.Option) RootOption {
	return func(r *RootCommand) {
		r.serviceOptions = append(r.serviceOptions, opts...)
	}
}

// NewRootCommand creates the root cobra command with global flags.
// A nil opener uses config.CreateStore.
func NewRootCommand(opener StoreOpener, opts ...RootOption) *RootCommand {
	if opener == nil {
		opener = config.CreateStore
	}
	root := &RootCommand{opener: opener}
	for _, opt := range opts {
		opt(root)
	}

	root.cmd = &cobra.Command{
		Use:   "tm",
		Short: "A command-line task manager",
		Long: `Task Manager (tm) keeps a list of tasks with a status, a priority and an optional due date.

FEATURES:
  • Add, edit, delete and inspect tasks
  • Cycle status todo -> in-progress -> completed -> todo
  • Filter by status and search titles and descriptions
  • Sort by due date, priority, creation time or title
  • Export to CSV, JSON or YAML
  • Store tasks in SQLite, a JSON file or PostgreSQL

EXAMPLES:
  tm add "Buy milk" -p high --due 2024-03-20   # Add a task
  tm list                                      # Newest tasks first
  tm list milk --status todo --sort dueDate --asc
  tm status 0190a1b2                           # Advance to the next status
  tm status 0190a1b2 --set completed           # Set a status directly
  tm edit 0190a1b2 --title "Buy oat milk" --clear-due
  tm delete 0190a1b2 --yes
  tm summary                                   # Counts by status and priority
  tm export --format csv > tasks.csv           # Export the current view

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults
  The config file is $TM_CONFIG or <data dir>/config.yaml.

  Storage Configuration:
    TM_STORE                               Backend: sqlite, file, postgres, memory (default: sqlite)
    TM_DATA_DIR                            Data directory (default: ~/.tm)
    TM_DATA_FILE                           Data file (default: tm.db, or <slot>.json for file)
    TM_SLOT                                Collection name (default: tasks)
    TM_POSTGRES_DSN                        PostgreSQL connection string
    TM_QUERY_TIMEOUT                       Read timeout (default: 5s)
    TM_WRITE_TIMEOUT                       Write timeout (default: 10s)
    TM_DIR_PERMISSIONS                     Data directory mode, octal (default: 755)

  Display Configuration:
    TM_DISPLAY_DATE_FORMAT                 Due date layout (default: Jan 2, 2006)
    TM_DISPLAY_COLOR                       Coloured badges (default: true)
    TM_DISPLAY_LOCALE                      Title sort collation (default: en)

  View Configuration:
    TM_VIEW_SORT                           Default sort (default: createdAt)
    TM_VIEW_ASCENDING                      Default direction (default: false)

  Validation Configuration:
    TM_VALIDATION_TITLE_MIN                Min title length (default: 1)
    TM_VALIDATION_TITLE_MAX                Max title length (default: 200)
    TM_VALIDATION_DESCRIPTION_MAX          Max description length, 0 for none (default: 2000)

  Application Configuration:
    TM_APP_TIMEOUT                         Command timeout (default: 30s)
    TM_APP_VERBOSE                         Verbose output (default: false)
    TM_DEBUG                               Debug logging to stderr when set

IDENTIFIERS:
  Commands taking an ID accept any prefix that matches exactly one task.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Apply configuration overrides from flags before any command runs
			return root.loadConfig()
		},
	}

	// Add global flags for configuration overrides
	root.addGlobalFlags()

	// Add all subcommands
	root.addSubcommands()

	return root
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command and closes the store afterwards
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx as the parent of every command context
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if closeErr := r.close(); err == nil {
		err = closeErr
	}
	return err
}

func (r *RootCommand) close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	r.app = nil
	return err
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "Config file (overrides TM_CONFIG)")

	// Storage configuration
	flags.String("store", "", "Storage backend: sqlite, file, postgres, memory (overrides TM_STORE)")
	flags.String("data-dir", "", "Data directory (overrides TM_DATA_DIR)")
	flags.String("data-file", "", "Data file name or path (overrides TM_DATA_FILE)")
	flags.String("slot", "", "Collection name (overrides TM_SLOT)")
	flags.String("postgres-dsn", "", "PostgreSQL connection string (overrides TM_POSTGRES_DSN)")
	flags.Duration("query-timeout", 0, "Storage read timeout (overrides TM_QUERY_TIMEOUT)")
	flags.Duration("write-timeout", 0, "Storage write timeout (overrides TM_WRITE_TIMEOUT)")

	// Display configuration
	flags.String("date-format", "", "Due date layout in Go time format (overrides TM_DISPLAY_DATE_FORMAT)")
	flags.Bool("no-color", false, "Disable coloured badges (overrides TM_DISPLAY_COLOR)")
	flags.String("locale", "", "Locale for title sorting (overrides TM_DISPLAY_LOCALE)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Command timeout (overrides TM_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable verbose output (overrides TM_APP_VERBOSE)")
}

// addViewFlags adds the filter and sort flags shared by list and export
func addViewFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSlice("status", nil, "Only show tasks with this status (repeatable: todo, in-progress, completed)")
	flags.String("sort", "", "Sort by dueDate, priority, createdAt or title (default from TM_VIEW_SORT)")
	flags.Bool("asc", false, "Sort ascending")
	flags.Bool("desc", false, "Sort descending")
	cmd.MarkFlagsMutuallyExclusive("asc", "desc")
}

// viewRequest reads the view flags; args become the search term
func viewRequest(cmd *cobra.Command, args []string) api.ViewRequest {
	flags := cmd.Flags()
	req := api.ViewRequest{Search: strings.Join(args, " ")}
	req.Statuses, _ = flags.GetStringSlice("status")
	req.Sort, _ = flags.GetString("sort")
	if flags.Changed("asc") {
		asc, _ := flags.GetBool("asc")
		req.Ascending = &asc
	}
	if flags.Changed("desc") {
		desc, _ := flags.GetBool("desc")
		asc := !desc
		req.Ascending = &asc
	}
	return req
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	// Add command
	addCmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a new task",
		Long: `Add a new task. Words after the command form the title.

Examples:
  tm add Buy milk
  tm add "Write report" -d "Quarterly numbers" -p high --due 2024-03-31`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var input validation.TaskInput
			input.Description, _ = flags.GetString("description")
			input.Status, _ = flags.GetString("status")
			input.Priority, _ = flags.GetString("priority")
			input.DueDate, _ = flags.GetString("due")

			return r.run(cmd, r.getAppTimeout(), func(ctx context.Context, app *App) error {
				return NewAddCommand(app).Execute(ctx, args, input)
			})
		},
	}
	addCmd.Flags().StringP("description", "d", "", "Task description")
	addCmd.Flags().StringP("status", "s", "", "Status: todo, in-progress, completed (default todo)")
	addCmd.Flags().StringP("priority", "p", "", "Priority: low, medium, high (default medium)")
	addCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	// Edit command
	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a task",
		Long: `Change one or more fields of a task. Fields without a flag keep their value.

Examples:
  tm edit 0190a1b2 --title "Buy oat milk"
  tm edit 0190a1b2 --priority low --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := patchFromFlags(cmd)
			return r.run(cmd, r.getAppTimeout(), func(ctx context.Context, app *App) error {
				return NewEditCommand(app).Execute(ctx, args[0], patch)
			})
		},
	}
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().String("description", "", "New description (empty to clear)")
	editCmd.Flags().String("status", "", "New status")
	editCmd.Flags().String("priority", "", "New priority")
	editCmd.Flags().String("due", "", "New due date (YYYY-MM-DD)")
	editCmd.Flags().Bool("clear-due", false, "Remove the due date")
	editCmd.MarkFlagsMutuallyExclusive("due", "clear-due")

	// Delete command
	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Long: `Delete a task. This operation cannot be undone.
You will be asked to confirm unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			// Delete commands may need longer timeout for user interaction
			return r.run(cmd, r.getAppTimeout()*2, func(ctx context.Context, app *App) error {
				return NewDeleteCommand(app).Execute(ctx, args[0], yes)
			})
		},
	}
	deleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")

	// Status command
	statusCmd := &cobra.Command{
		Use:   "status ID",
		Short: "Advance or set a task's status",
		Long: `Without --set, move the task to the next status:
todo -> in-progress -> completed -> todo.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("set")
			if cmd.Flags().Changed("set") && strings.TrimSpace(status) == "" {
				return NewErrorHandler().Handle("change status", validationRequired("status"))
			}
			return r.run(cmd, r.getAppTimeout(), func(ctx context.Context, app *App) error {
				return NewStatusCommand(app).Execute(ctx, args[0], status)
			})
		},
	}
	statusCmd.Flags().String("set", "", "Set this status instead of cycling")

	// Show command
	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show every field of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, r.getAppTimeout(), func(ctx context.Context, app *App) error {
				return NewShowCommand(app).Execute(ctx, args[0])
			})
		},
	}

	// List command
	listCmd := &cobra.Command{
		Use:   "list [SEARCH...]",
		Short: "List tasks",
		Long: `List tasks, newest first unless configured otherwise.

Search words match titles and descriptions (case-insensitive).

Examples:
  tm list
  tm list milk
  tm list --status todo --status in-progress
  tm list --sort dueDate --asc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := viewRequest(cmd, args)
			return r.run(cmd, r.getAppTimeout(), func(ctx context.Context, app *App) error {
				return NewListCommand(app).Execute(ctx, nil, req)
			})
		},
	}
	addViewFlags(listCmd)

	// Summary command
	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Show task counts",
		Long:  "Show how many tasks there are by status and priority, and how many are overdue.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.run(cmd, r.getAppTimeout(), func(ctx context.Context, app *App) error {
				return NewSummaryCommand(app).Execute(ctx)
			})
		},
	}

	// Export command
	exportCmd := &cobra.Command{
		Use:   "export [SEARCH...]",
		Short: "Export tasks",
		Long: `Export the tasks in the current view.

Supported formats:
  csv  - Comma-separated values
  json - The stored record format
  yaml - The stored record format as YAML

Example:
  tm export --format json --status completed > done.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			req := viewRequest(cmd, args)
			return r.run(cmd, r.getAppTimeout(), func(ctx context.Context, app *App) error {
				return NewExportCommand(app).Execute(ctx, format, req)
			})
		},
	}
	exportCmd.Flags().StringP("format", "f", FormatCSV, "Output format: csv, json, yaml")
	addViewFlags(exportCmd)

	// Add all subcommands to root
	r.cmd.AddCommand(
		addCmd,
		editCmd,
		deleteCmd,
		statusCmd,
		showCmd,
		listCmd,
		summaryCmd,
		exportCmd,
	)
}

// patchFromFlags builds a patch from the edit flags that were given
func patchFromFlags(cmd *cobra.Command) validation.TaskPatch {
	flags := cmd.Flags()
	var patch validation.TaskPatch
	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetString(name)
		return &value
	}
	patch.Title = stringFlag("title")
	patch.Description = stringFlag("description")
	patch.Status = stringFlag("status")
	patch.Priority = stringFlag("priority")
	patch.DueDate = stringFlag("due")
	patch.ClearDueDate, _ = flags.GetBool("clear-due")
	return patch
}

func validationRequired(field string) error {
	ve := validation.NewValidationError()
	ve.AddRequiredError(field)
	return ve
}

// run opens the store on first use and calls fn with a context bounded by timeout
func (r *RootCommand) run(cmd *cobra.Command, timeout time.Duration, fn func(ctx context.Context, app *App) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	app, err := r.getApp(ctx, cmd)
	if err != nil {
		return err
	}
	return fn(ctx, app)
}

func (r *RootCommand) getApp(ctx context.Context, cmd *cobra.Command) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	if r.config == nil {
		if err := r.loadConfig(); err != nil {
			return nil, err
		}
	}

	store, err := r.opener(ctx, r.config)
	if err != nil {
		return nil, NewErrorHandler().Handle("open task store", err)
	}
	r.store = store

	if r.config.Application.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Using %s\n", describeStore(r.config))
	}

	apiInstance := api.New(store, r.config, r.serviceOptions...)
	r.app = NewAppWithIO(apiInstance, r.config, cmd.OutOrStdout(), cmd.ErrOrStderr(), cmd.InOrStdin())
	return r.app, nil
}

func describeStore(cfg *config.Config) string {
	switch cfg.Storage.Backend {
	case config.BackendSQLite, config.BackendFile:
		return fmt.Sprintf("%s store at %s (slot %q)", cfg.Storage.Backend, cfg.GetDataPath(), cfg.Storage.Slot)
	case config.BackendPostgres:
		return fmt.Sprintf("postgres store (slot %q)", cfg.Storage.Slot)
	default:
		return cfg.Storage.Backend + " store"
	}
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 30 * time.Second // Default timeout
}

// loadConfig runs the config cascade and applies values from command-line flags
func (r *RootCommand) loadConfig() error {
	flags := r.cmd.PersistentFlags()

	loader := config.NewLoader()
	if path, _ := flags.GetString("config"); path != "" {
		loader.WithConfigFile(path)
	}

	cfg, err := loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	r.config = cfg
	return nil
}

// overridesFromFlags collects the global flags that were set explicitly
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetString(name)
		return &value
	}
	durationFlag := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetDuration(name)
		return &value
	}
	boolFlag := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetBool(name)
		return &value
	}

	// Storage configuration
	if backend := stringFlag("store"); backend != nil {
		lower := strings.ToLower(*backend)
		overrides.Backend = &lower
	}
	overrides.DataDir = stringFlag("data-dir")
	overrides.DataFile = stringFlag("data-file")
	overrides.Slot = stringFlag("slot")
	overrides.PostgresDSN = stringFlag("postgres-dsn")
	overrides.QueryTimeout = durationFlag("query-timeout")
	overrides.WriteTimeout = durationFlag("write-timeout")

	// Display configuration
	overrides.DateFormat = stringFlag("date-format")
	overrides.NoColor = boolFlag("no-color")
	overrides.Locale = stringFlag("locale")

	// Application configuration
	overrides.Timeout = durationFlag("app-timeout")
	overrides.Verbose = boolFlag("verbose")

	return overrides
}
