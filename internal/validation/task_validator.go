package validation

import (
	"strings"
	"time"

	"task-manager/internal/config"
	"task-manager/internal/domain"
)

// TaskInput is raw, unvalidated task data as typed by a user.
// Blank Status and Priority fall back to todo and medium; a blank DueDate means none.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     string
}

// TaskPatch is a partial edit. Nil fields keep their current value.
// ClearDueDate removes the due date and wins over DueDate.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *string
	ClearDueDate bool
}

// IsEmpty reports whether the patch changes nothing
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && !p.ClearDueDate
}

// TaskValidator turns raw task input into domain values
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a task validator with default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using the limits in cfg
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateTitle validates a title for creation or update
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()
	trimmed := tv.validator.TrimAndValidateString(title)

	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("title")
		return validationError
	}
	if !tv.validator.IsValidTitleLength(trimmed) {
		validationError.AddInvalidLengthError("title", trimmed, tv.validator.TitleMinLength(), tv.validator.TitleMaxLength())
	}
	if tv.validator.HasControlCharacters(trimmed, false) {
		validationError.AddInvalidCharacterError("title", trimmed)
	}

	return validationError.OrNil()
}

// ValidateDescription validates an optional description
func (tv *TaskValidator) ValidateDescription(description string) error {
	validationError := NewValidationError()
	trimmed := tv.validator.TrimAndValidateString(description)

	if !tv.validator.IsValidDescriptionLength(trimmed) {
		validationError.AddInvalidLengthError("description", trimmed, 0, tv.validator.DescriptionMaxLength())
	}
	if tv.validator.HasControlCharacters(trimmed, true) {
		validationError.AddInvalidCharacterError("description", trimmed)
	}

	return validationError.OrNil()
}

// ParseStatus validates a status name
func (tv *TaskValidator) ParseStatus(s string) (domain.Status, error) {
	status, err := domain.ParseStatus(s)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("status", s, "must be one of todo, in-progress, completed")
		return "", validationError
	}
	return status, nil
}

// ParseStatuses validates a list of status names, dropping duplicates
func (tv *TaskValidator) ParseStatuses(values []string) ([]domain.Status, error) {
	validationError := NewValidationError()
	seen := make(map[domain.Status]bool)
	var statuses []domain.Status
	for _, value := range values {
		status, err := tv.ParseStatus(value)
		if err != nil {
			validationError.Merge("status", err)
			continue
		}
		if !seen[status] {
			seen[status] = true
			statuses = append(statuses, status)
		}
	}
	if err := validationError.OrNil(); err != nil {
		return nil, err
	}
	return statuses, nil
}

// ParsePriority validates a priority name
func (tv *TaskValidator) ParsePriority(s string) (domain.Priority, error) {
	priority, err := domain.ParsePriority(s)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("priority", s, "must be one of low, medium, high")
		return "", validationError
	}
	return priority, nil
}

// ParseOptionalDate validates an optional YYYY-MM-DD date; blank means none
func (tv *TaskValidator) ParseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError(field, s, "YYYY-MM-DD")
		return nil, validationError
	}
	return &d, nil
}

// ParseSortCriteria validates a sort criteria name
func (tv *TaskValidator) ParseSortCriteria(s string) (domain.SortCriteria, error) {
	criteria, err := domain.ParseSortCriteria(s)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("sort", s, "must be one of dueDate, priority, createdAt, title")
		return "", validationError
	}
	return criteria, nil
}

// ValidateTaskID checks that an id or id prefix was given
func (tv *TaskValidator) ValidateTaskID(id string) error {
	if !tv.validator.IsNonEmptyString(id) {
		validationError := NewValidationError()
		validationError.AddRequiredError("id")
		return validationError
	}
	if tv.validator.HasControlCharacters(id, false) {
		validationError := NewValidationError()
		validationError.AddInvalidCharacterError("id", id)
		return validationError
	}
	return nil
}

// ValidateTaskInput checks every field of input and returns the cleaned form.
// All field problems are reported together.
func (tv *TaskValidator) ValidateTaskInput(input TaskInput) (domain.TaskFormData, error) {
	validationError := NewValidationError()
	form := domain.TaskFormData{
		Title:       tv.validator.TrimAndValidateString(input.Title),
		Description: tv.validator.TrimAndValidateString(input.Description),
		Status:      domain.StatusTodo,
		Priority:    domain.PriorityMedium,
	}

	validationError.Merge("title", tv.ValidateTitle(input.Title))
	validationError.Merge("description", tv.ValidateDescription(input.Description))

	if strings.TrimSpace(input.Status) != "" {
		status, err := tv.ParseStatus(input.Status)
		validationError.Merge("status", err)
		form.Status = status
	}
	if strings.TrimSpace(input.Priority) != "" {
		priority, err := tv.ParsePriority(input.Priority)
		validationError.Merge("priority", err)
		form.Priority = priority
	}
	due, err := tv.ParseOptionalDate("due_date", input.DueDate)
	validationError.Merge("due_date", err)
	form.DueDate = due

	if err := validationError.OrNil(); err != nil {
		return domain.TaskFormData{}, err
	}
	return form, nil
}

// ApplyPatch validates patch and applies it on top of current
func (tv *TaskValidator) ApplyPatch(current domain.TaskFormData, patch TaskPatch) (domain.TaskFormData, error) {
	input := TaskInput{
		Title:       current.Title,
		Description: current.Description,
		Status:      string(current.Status),
		Priority:    string(current.Priority),
	}
	if current.DueDate != nil {
		input.DueDate = domain.FormatDate(*current.DueDate)
	}

	// blank status or priority would otherwise fall back to the creation defaults
	validationError := NewValidationError()
	if patch.Title != nil {
		input.Title = *patch.Title
	}
	if patch.Description != nil {
		input.Description = *patch.Description
	}
	if patch.Status != nil {
		input.Status = *patch.Status
		if !tv.validator.IsNonEmptyString(*patch.Status) {
			validationError.AddRequiredError("status")
		}
	}
	if patch.Priority != nil {
		input.Priority = *patch.Priority
		if !tv.validator.IsNonEmptyString(*patch.Priority) {
			validationError.AddRequiredError("priority")
		}
	}
	if patch.DueDate != nil {
		input.DueDate = *patch.DueDate
	}
	if patch.ClearDueDate {
		input.DueDate = ""
	}
	if validationError.HasErrors() {
		return domain.TaskFormData{}, validationError
	}

	return tv.ValidateTaskInput(input)
}
