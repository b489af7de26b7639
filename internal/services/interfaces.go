package services

import (
	"context"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/repository"
)

// ViewOptions selects and orders a list of tasks
type ViewOptions struct {
	Statuses   []domain.Status     `json:"statuses,omitempty"`
	SearchTerm string              `json:"search_term,omitempty"`
	SortBy     domain.SortCriteria `json:"sort_by"`
	Ascending  bool                `json:"ascending"`
}

// Summary represents counts over the whole task collection
type Summary struct {
	Total      int                     `json:"total"`
	ByStatus   map[domain.Status]int   `json:"by_status"`
	ByPriority map[domain.Priority]int `json:"by_priority"`
	Overdue    int                     `json:"overdue"`
	DueToday   int                     `json:"due_today"`
	NoDueDate  int                     `json:"no_due_date"`
}

// Completed returns the number of completed tasks
func (s *Summary) Completed() int {
	return s.ByStatus[domain.StatusCompleted]
}

// TimeService answers calendar questions about due dates
type TimeService interface {
	Now() time.Time
	Today() time.Time

	// DaysUntilDue is negative for past due dates; ok is false without a due date
	DaysUntilDue(task domain.Task) (days int, ok bool)
	IsDueToday(task domain.Task) bool
	IsOverdue(task domain.Task) bool
}

// TaskService owns the task collection and every change made to it
type TaskService interface {
	// Queries
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, idOrPrefix string) (*domain.Task, error)

	// Mutations, each persisted before returning
	CreateTask(ctx context.Context, form domain.TaskFormData) (*domain.Task, error)
	UpdateTask(ctx context.Context, idOrPrefix string, form domain.TaskFormData) (*domain.Task, error)
	DeleteTask(ctx context.Context, idOrPrefix string) (*domain.Task, error)
	SetStatus(ctx context.Context, idOrPrefix string, status domain.Status) (*domain.Task, error)
	CycleStatus(ctx context.Context, idOrPrefix string) (*domain.Task, error)
}

// SearchService produces filtered and sorted views of the collection
type SearchService interface {
	View(ctx context.Context, opts ViewOptions) ([]domain.Task, error)
	ApplyView(tasks []domain.Task, opts ViewOptions) []domain.Task
}

// ReportingService handles counting and reporting operations
type ReportingService interface {
	Summarize(ctx context.Context) (*Summary, error)
	SummarizeTasks(tasks []domain.Task) *Summary
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimeService      TimeService
	TaskService      TaskService
	SearchService    SearchService
	ReportingService ReportingService
}

// Option configures the services built by NewServiceContainer
type Option func(*options)

type options struct {
	clock   func() time.Time
	factory *domain.Factory
	sorter  *domain.Sorter
}

// WithClock sets the time source for due date checks and new tasks
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithFactory sets the factory used to create tasks
func WithFactory(factory *domain.Factory) Option {
	return func(o *options) {
		o.factory = factory
	}
}

// WithSorter sets the sorter used for views
func WithSorter(sorter *domain.Sorter) Option {
	return func(o *options) {
		o.sorter = sorter
	}
}

// NewServiceContainer wires every service on top of store
func NewServiceContainer(store repository.Store, opts ...Option) *ServiceContainer {
	o := &options{clock: time.Now}
	for _, opt := range opts {
		opt(o)
	}
	if o.factory == nil {
		o.factory = domain.NewFactory(domain.WithClock(o.clock))
	}
	if o.sorter == nil {
		o.sorter = domain.NewSorter(defaultLanguage)
	}

	timeService := NewTimeService(o.clock)
	taskService := NewTaskService(store, o.factory)
	searchService := NewSearchService(taskService, o.sorter)
	reportingService := NewReportingService(taskService, timeService)

	return &ServiceContainer{
		TimeService:      timeService,
		TaskService:      taskService,
		SearchService:    searchService,
		ReportingService: reportingService,
	}
}
