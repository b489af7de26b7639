package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"task-manager/internal/config"
	"task-manager/internal/domain"
)

// minShortIDLength is the shortest task ID prefix shown to users
const minShortIDLength = 8

var (
	priorityColors = map[domain.Priority]lipgloss.Color{
		domain.PriorityHigh:   lipgloss.Color("#F43F5E"), // rose
		domain.PriorityMedium: lipgloss.Color("#F59E0B"), // amber
		domain.PriorityLow:    lipgloss.Color("#059669"), // emerald
	}
	statusColors = map[domain.Status]lipgloss.Color{
		domain.StatusTodo:       lipgloss.Color("#64748B"), // slate
		domain.StatusInProgress: lipgloss.Color("#3B82F6"), // blue
		domain.StatusCompleted:  lipgloss.Color("#22C55E"), // green
	}
	fallbackColor = lipgloss.Color("#64748B")
)

// Renderer formats tasks for the terminal
type Renderer struct {
	dateFormat string
	color      bool
	lg         *lipgloss.Renderer
	muted      lipgloss.Style
	warn       lipgloss.Style
	title      lipgloss.Style
}

// NewRenderer creates a renderer for w. Colour is only emitted when enabled in
// display and w is a terminal that supports it.
func NewRenderer(w io.Writer, display config.DisplayConfig) *Renderer {
	lg := lipgloss.NewRenderer(w)
	format := display.DateFormat
	if format == "" {
		format = "Jan 2, 2006"
	}
	return &Renderer{
		dateFormat: format,
		color:      display.Color,
		lg:         lg,
		muted:      lg.NewStyle().Foreground(lipgloss.Color("#888888")),
		warn:       lg.NewStyle().Foreground(lipgloss.Color("#F43F5E")).Bold(true),
		title:      lg.NewStyle().Bold(true),
	}
}

func (r *Renderer) badge(label string, color lipgloss.Color) string {
	if !r.color {
		return "[" + label + "]"
	}
	return r.lg.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(color).
		Padding(0, 1).
		Render(label)
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// PriorityBadge renders the priority label
func (r *Renderer) PriorityBadge(p domain.Priority) string {
	color, ok := priorityColors[p]
	if !ok {
		color = fallbackColor
	}
	return r.badge(p.Label(), color)
}

// StatusBadge renders the status label
func (r *Renderer) StatusBadge(s domain.Status) string {
	color, ok := statusColors[s]
	if !ok {
		color = fallbackColor
	}
	return r.badge(s.Label(), color)
}

// FormatDueDate renders a due date with the configured layout
func (r *Renderer) FormatDueDate(due time.Time) string {
	return due.Format(r.dateFormat)
}

func (r *Renderer) dueText(task domain.Task, now time.Time) string {
	if task.DueDate == nil {
		return ""
	}
	text := "Due: " + r.FormatDueDate(*task.DueDate)
	if task.IsOverdue(now) {
		return r.style(r.warn, text+" (overdue)")
	}
	return r.style(r.muted, text)
}

// TaskLine renders one task as a two-line list entry
func (r *Renderer) TaskLine(task domain.Task, shortID string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s %s %s", r.style(r.muted, shortID), r.style(r.title, task.Title),
		r.PriorityBadge(task.Priority), r.StatusBadge(task.Status))
	if due := r.dueText(task, now); due != "" {
		b.WriteString("  " + due)
	}
	b.WriteString("\n")

	description := firstLine(task.Description)
	if description == "" {
		description = "No description"
	}
	b.WriteString(strings.Repeat(" ", len(shortID)+2) + r.style(r.muted, description) + "\n")
	return b.String()
}

// TaskDetail renders every field of a task
func (r *Renderer) TaskDetail(task domain.Task, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.style(r.title, task.Title))
	fmt.Fprintf(&b, "ID:          %s\n", task.ID)
	fmt.Fprintf(&b, "Status:      %s\n", r.StatusBadge(task.Status))
	fmt.Fprintf(&b, "Priority:    %s\n", r.PriorityBadge(task.Priority))
	if task.DueDate != nil {
		due := r.FormatDueDate(*task.DueDate)
		if task.IsOverdue(now) {
			due = r.style(r.warn, due+" (overdue)")
		}
		fmt.Fprintf(&b, "Due:         %s\n", due)
	} else {
		fmt.Fprintf(&b, "Due:         %s\n", r.style(r.muted, "none"))
	}
	fmt.Fprintf(&b, "Created:     %s\n", task.CreatedAt.Local().Format(r.dateFormat+" 15:04"))

	if task.Description == "" {
		fmt.Fprintf(&b, "\n%s\n", r.style(r.muted, "No description"))
	} else {
		fmt.Fprintf(&b, "\n%s\n", task.Description)
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

// ShortIDs maps each id to its shortest prefix of at least min characters that
// no other id shares. Duplicates keep their full value.
func ShortIDs(ids []string, min int) map[string]string {
	short := make(map[string]string, len(ids))
	for _, id := range ids {
		n := min
		if n > len(id) {
			n = len(id)
		}
		for ; n < len(id); n++ {
			if !sharesPrefix(ids, id, id[:n]) {
				break
			}
		}
		short[id] = id[:n]
	}
	return short
}

func sharesPrefix(ids []string, self, prefix string) bool {
	for _, other := range ids {
		if other != self && strings.HasPrefix(strings.ToLower(other), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}
