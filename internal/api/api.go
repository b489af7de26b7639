package api

import (
	"context"
	"strings"
	"time"

	"task-manager/internal/config"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository"
	"task-manager/internal/services"
	"task-manager/internal/validation"
)

// ViewRequest is an unvalidated list request.
// A blank Sort and a nil Ascending fall back to the configured default view.
type ViewRequest struct {
	Statuses  []string
	Search    string
	Sort      string
	Ascending *bool
}

// API defines the interface for all task operations.
// Identifiers may be a full task ID or a unique prefix of one.
type API interface {
	// Task operations
	CreateTask(ctx context.Context, input validation.TaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch validation.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) (*domain.Task, error)

	// Status workflow
	CycleStatus(ctx context.Context, id string) (*domain.Task, error)
	SetStatus(ctx context.Context, id string, status string) (*domain.Task, error)

	// Views and reports
	ListView(ctx context.Context, req ViewRequest) ([]domain.Task, error)
	Summary(ctx context.Context) (*services.Summary, error)
	Now() time.Time
}

type apiImpl struct {
	services      *services.ServiceContainer
	taskValidator *validation.TaskValidator
	defaultView   services.ViewOptions
}

// New creates a new API instance over store. A nil cfg uses the defaults.
func New(store repository.Store, cfg *config.Config, opts ...services.Option) API {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	defaultSort, err := domain.ParseSortCriteria(cfg.View.DefaultSort)
	if err != nil {
		defaultSort = domain.SortByCreatedAt
	}

	opts = append([]services.Option{services.WithSorter(domain.NewSorter(cfg.GetLanguage()))}, opts...)
	return &apiImpl{
		services:      services.NewServiceContainer(store, opts...),
		taskValidator: validation.NewTaskValidatorWithConfig(cfg),
		defaultView: services.ViewOptions{
			SortBy:    defaultSort,
			Ascending: cfg.View.DefaultAscending,
		},
	}
}

// invalid wraps a validation failure so callers can match on errors.ErrorTypeValidation
func invalid(err error) error {
	if ve, ok := validation.AsValidationError(err); ok {
		return errors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
	}
	return errors.NewValidationError("invalid input", err)
}

func (a *apiImpl) CreateTask(ctx context.Context, input validation.TaskInput) (*domain.Task, error) {
	form, err := a.taskValidator.ValidateTaskInput(input)
	if err != nil {
		return nil, invalid(err)
	}
	return a.services.TaskService.CreateTask(ctx, form)
}

func (a *apiImpl) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := a.taskValidator.ValidateTaskID(id); err != nil {
		return nil, invalid(err)
	}
	return a.services.TaskService.GetTask(ctx, id)
}

func (a *apiImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return a.services.TaskService.ListTasks(ctx)
}

// UpdateTask applies patch on top of the stored task. Fields the patch leaves
// nil keep their value; an empty patch is rejected.
func (a *apiImpl) UpdateTask(ctx context.Context, id string, patch validation.TaskPatch) (*domain.Task, error) {
	if patch.IsEmpty() {
		return nil, errors.NewInvalidInputError("patch", nil, "nothing to update")
	}
	current, err := a.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	form, err := a.taskValidator.ApplyPatch(current.FormData(), patch)
	if err != nil {
		return nil, invalid(err)
	}
	return a.services.TaskService.UpdateTask(ctx, current.ID, form)
}

func (a *apiImpl) DeleteTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := a.taskValidator.ValidateTaskID(id); err != nil {
		return nil, invalid(err)
	}
	return a.services.TaskService.DeleteTask(ctx, id)
}

func (a *apiImpl) CycleStatus(ctx context.Context, id string) (*domain.Task, error) {
	if err := a.taskValidator.ValidateTaskID(id); err != nil {
		return nil, invalid(err)
	}
	return a.services.TaskService.CycleStatus(ctx, id)
}

func (a *apiImpl) SetStatus(ctx context.Context, id string, status string) (*domain.Task, error) {
	if err := a.taskValidator.ValidateTaskID(id); err != nil {
		return nil, invalid(err)
	}
	parsed, err := a.taskValidator.ParseStatus(status)
	if err != nil {
		return nil, invalid(err)
	}
	return a.services.TaskService.SetStatus(ctx, id, parsed)
}

// ListView filters by status and search term, then sorts
func (a *apiImpl) ListView(ctx context.Context, req ViewRequest) ([]domain.Task, error) {
	opts, err := a.viewOptions(req)
	if err != nil {
		return nil, err
	}
	return a.services.SearchService.View(ctx, opts)
}

func (a *apiImpl) viewOptions(req ViewRequest) (services.ViewOptions, error) {
	opts := a.defaultView
	opts.SearchTerm = req.Search

	statuses, err := a.taskValidator.ParseStatuses(req.Statuses)
	if err != nil {
		return services.ViewOptions{}, invalid(err)
	}
	opts.Statuses = statuses

	if strings.TrimSpace(req.Sort) != "" {
		criteria, err := a.taskValidator.ParseSortCriteria(req.Sort)
		if err != nil {
			return services.ViewOptions{}, invalid(err)
		}
		opts.SortBy = criteria
	}
	if req.Ascending != nil {
		opts.Ascending = *req.Ascending
	}
	return opts, nil
}

func (a *apiImpl) Summary(ctx context.Context) (*services.Summary, error) {
	return a.services.ReportingService.Summarize(ctx)
}

// Now returns the clock the services use for due date checks
func (a *apiImpl) Now() time.Time {
	return a.services.TimeService.Now()
}
