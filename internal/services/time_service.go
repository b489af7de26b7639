package services

import (
	"time"

	"task-manager/internal/domain"
)

const day = 24 * time.Hour

// timeServiceImpl implements the TimeService interface
type timeServiceImpl struct {
	now func() time.Time
}

// NewTimeService creates a new TimeService reading the time from now
func NewTimeService(now func() time.Time) TimeService {
	if now == nil {
		now = time.Now
	}
	return &timeServiceImpl{now: now}
}

// Now returns the current time
func (t *timeServiceImpl) Now() time.Time {
	return t.now()
}

// Today returns the current calendar date at midnight UTC, the form due dates use
func (t *timeServiceImpl) Today() time.Time {
	return domain.TruncateToDate(t.now().UTC())
}

// DaysUntilDue counts whole days from today to the task's due date
func (t *timeServiceImpl) DaysUntilDue(task domain.Task) (int, bool) {
	if task.DueDate == nil {
		return 0, false
	}
	due := domain.TruncateToDate(*task.DueDate)
	return int(due.Sub(t.Today()) / day), true
}

// IsDueToday reports whether the task is due on today's date
func (t *timeServiceImpl) IsDueToday(task domain.Task) bool {
	days, ok := t.DaysUntilDue(task)
	return ok && days == 0
}

// IsOverdue reports whether an unfinished task is past its due date
func (t *timeServiceImpl) IsOverdue(task domain.Task) bool {
	return task.IsOverdue(t.now())
}
