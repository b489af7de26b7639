package domain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle stage of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Statuses lists every valid status in cycle order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusCompleted}

// ParseStatus normalises and validates a status string.
// "In Progress" and "in_progress" both map to StatusInProgress.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "-", "_", "-").Replace(normalized)
	switch Status(normalized) {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return Status(normalized), nil
	}
	return "", fmt.Errorf("unknown status %q (want todo, in-progress or completed)", s)
}

// Valid reports whether s is one of the three statuses
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next returns the following status in the cycle todo -> in-progress -> completed -> todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return StatusTodo
	}
}

// Label returns the display text for the status
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

func (s Status) String() string {
	return string(s)
}

// Priority is the urgency ranking of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every valid priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority normalises and validates a priority string
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q (want low, medium or high)", s)
}

// Valid reports whether p is one of the three priorities
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities: low=1, medium=2, high=3. Invalid values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	default:
		return 0
	}
}

// Label returns the display text for the priority
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "Unknown"
	}
}

func (p Priority) String() string {
	return string(p)
}

// DateLayout is the calendar-date form used for due dates.
const DateLayout = "2006-01-02"

// ParseDate reads a due date. Both YYYY-MM-DD and full RFC 3339 timestamps are
// accepted; the result is the calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return TruncateToDate(t.UTC()), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
}

// FormatDate renders a due date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateToDate drops the clock part of t, keeping its calendar date in UTC.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Task represents a single trackable work item.
// ID and CreatedAt are assigned by the Factory and never change afterwards.
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	CreatedAt   time.Time
}

// TaskFormData is the mutable subset of a task, as supplied by a creator or editor.
type TaskFormData struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
}

// Apply returns a copy of the task with the form's fields, keeping ID and CreatedAt.
func (t Task) Apply(form TaskFormData) Task {
	t.Title = form.Title
	t.Description = form.Description
	t.Status = form.Status
	t.Priority = form.Priority
	t.DueDate = copyDate(form.DueDate)
	return t
}

// WithStatus returns a copy of the task with only its status replaced
func (t Task) WithStatus(status Status) Task {
	t.Status = status
	return t
}

// FormData extracts the mutable fields of the task
func (t Task) FormData() TaskFormData {
	return TaskFormData{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueDate:     copyDate(t.DueDate),
	}
}

// HasDueDate reports whether a due date is set
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// IsOverdue reports whether an unfinished task's due date lies before now's calendar date.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusCompleted {
		return false
	}
	return t.DueDate.Before(TruncateToDate(now.UTC()))
}

// String returns the task title for display purposes.
func (t Task) String() string {
	return t.Title
}

func copyDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
