package services

import (
	"context"

	"task-manager/internal/domain"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	taskService TaskService
	timeService TimeService
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(taskService TaskService, timeService TimeService) ReportingService {
	return &reportingServiceImpl{
		taskService: taskService,
		timeService: timeService,
	}
}

// Summarize counts the stored collection
func (r *reportingServiceImpl) Summarize(ctx context.Context) (*Summary, error) {
	tasks, err := r.taskService.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return r.SummarizeTasks(tasks), nil
}

// SummarizeTasks counts tasks by status and priority and checks due dates
// against the service clock. Every status and priority has an entry, zero or not.
func (r *reportingServiceImpl) SummarizeTasks(tasks []domain.Task) *Summary {
	summary := &Summary{
		Total:      len(tasks),
		ByStatus:   make(map[domain.Status]int, len(domain.Statuses)),
		ByPriority: make(map[domain.Priority]int, len(domain.Priorities)),
	}
	for _, status := range domain.Statuses {
		summary.ByStatus[status] = 0
	}
	for _, priority := range domain.Priorities {
		summary.ByPriority[priority] = 0
	}

	for _, task := range tasks {
		summary.ByStatus[task.Status]++
		summary.ByPriority[task.Priority]++

		switch {
		case !task.HasDueDate():
			summary.NoDueDate++
		case r.timeService.IsOverdue(task):
			summary.Overdue++
		case task.Status != domain.StatusCompleted && r.timeService.IsDueToday(task):
			summary.DueToday++
		}
	}
	return summary
}
