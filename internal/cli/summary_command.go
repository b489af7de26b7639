package cli

import (
	"context"
	"fmt"

	"task-manager/internal/api"
	"task-manager/internal/domain"
)

// SummaryCommand handles the summary command
type SummaryCommand struct {
	app *App
	api api.API
}

// NewSummaryCommand creates a new summary command handler
func NewSummaryCommand(app *App) *SummaryCommand {
	return &SummaryCommand{app: app, api: app.api}
}

// Execute prints task counts by status and priority
func (c *SummaryCommand) Execute(ctx context.Context) error {
	summary, err := c.api.Summary(ctx)
	if err != nil {
		return NewErrorHandler().Handle("summarize tasks", err)
	}

	out := c.app.out
	fmt.Fprintf(out, "Tasks: %d\n", summary.Total)
	if summary.Total == 0 {
		return nil
	}

	fmt.Fprintln(out, "\nBy status:")
	for _, status := range domain.Statuses {
		fmt.Fprintf(out, "  %-12s %d\n", status.Label(), summary.ByStatus[status])
	}

	fmt.Fprintln(out, "\nBy priority:")
	for i := len(domain.Priorities) - 1; i >= 0; i-- {
		priority := domain.Priorities[i]
		fmt.Fprintf(out, "  %-12s %d\n", priority.Label(), summary.ByPriority[priority])
	}

	fmt.Fprintln(out, "\nDue dates:")
	fmt.Fprintf(out, "  %-12s %d\n", "Overdue", summary.Overdue)
	fmt.Fprintf(out, "  %-12s %d\n", "Due today", summary.DueToday)
	fmt.Fprintf(out, "  %-12s %d\n", "No due date", summary.NoDueDate)

	percent := float64(summary.Completed()) / float64(summary.Total) * 100
	fmt.Fprintf(out, "\nCompleted: %d of %d (%.0f%%)\n", summary.Completed(), summary.Total, percent)
	return nil
}
