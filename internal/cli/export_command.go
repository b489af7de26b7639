package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"task-manager/internal/api"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportCommand handles the export command
type ExportCommand struct {
	app    *App
	api    api.API
	mapper *domain.TaskMapper
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app, api: app.api, mapper: domain.NewTaskMapper()}
}

// Execute writes the tasks matching req in format
func (c *ExportCommand) Execute(ctx context.Context, format string, req api.ViewRequest) error {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case FormatCSV, FormatJSON, FormatYAML, "yml":
	default:
		return NewErrorHandler().Handle("export tasks",
			errors.NewInvalidInputError("format", format, "unsupported format, use csv, json or yaml"))
	}

	tasks, err := c.api.ListView(ctx, req)
	if err != nil {
		return NewErrorHandler().Handle("export tasks", err)
	}
	records := c.mapper.ToRecordSlice(tasks)

	switch format {
	case FormatCSV:
		return c.outputCSV(records)
	case FormatJSON:
		return c.outputJSON(records)
	default:
		return c.outputYAML(records)
	}
}

// outputCSV writes one row per task after a header row
func (c *ExportCommand) outputCSV(records []repository.TaskRecord) error {
	writer := csv.NewWriter(c.app.out)

	header := []string{"ID", "Title", "Description", "Status", "Priority", "Due Date", "Created At"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range records {
		due := ""
		if record.DueDate != nil {
			due = *record.DueDate
		}
		row := []string{
			record.ID,
			record.Title,
			record.Description,
			record.Status,
			record.Priority,
			due,
			record.CreatedAt,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// outputJSON writes the records in the same shape the stores persist
func (c *ExportCommand) outputJSON(records []repository.TaskRecord) error {
	encoder := json.NewEncoder(c.app.out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func (c *ExportCommand) outputYAML(records []repository.TaskRecord) error {
	encoder := yaml.NewEncoder(c.app.out)
	encoder.SetIndent(2)
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return encoder.Close()
}
