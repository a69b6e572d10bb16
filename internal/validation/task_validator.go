package validation

import (
	"taskflow/internal/config"
	"taskflow/internal/domain"
)

// TitleAndDescriptionRequired is reported when a new task lacks either field
const TitleAndDescriptionRequired = "Title and description are required"

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{
		validator: NewValidatorWithConfig(cfg),
	}
}

// ValidateNewTask validates a task creation request.
// Title and description are required; status and priority are optional.
func (tv *TaskValidator) ValidateNewTask(input domain.NewTask) error {
	validationError := NewValidationError()

	if !tv.validator.IsNonEmptyString(input.Title) || !tv.validator.IsNonEmptyString(input.Description) {
		field := "description"
		if !tv.validator.IsNonEmptyString(input.Title) {
			field = "title"
		}
		validationError.add(field, RuleRequired, TitleAndDescriptionRequired)
		return validationError
	}

	tv.checkTitle(validationError, input.Title)
	tv.checkDescription(validationError, input.Description)
	tv.checkStatus(validationError, input.Status)
	tv.checkPriority(validationError, input.Priority)

	return validationError.result()
}

// ValidateTaskPatch validates a partial update. Empty fields are left alone
// by the merge and are therefore not checked.
func (tv *TaskValidator) ValidateTaskPatch(patch domain.TaskPatch) error {
	validationError := NewValidationError()

	if tv.validator.IsNonEmptyString(patch.Title) {
		tv.checkTitle(validationError, patch.Title)
	}
	if tv.validator.IsNonEmptyString(patch.Description) {
		tv.checkDescription(validationError, patch.Description)
	}
	tv.checkStatus(validationError, patch.Status)
	tv.checkPriority(validationError, patch.Priority)

	return validationError.result()
}

func (tv *TaskValidator) checkTitle(ve *ValidationError, title string) {
	trimmed := tv.validator.TrimAndValidateString(title)
	maxLen := tv.validator.getTitleMaxLength()

	if !tv.validator.IsValidStringLength(trimmed, 1, maxLen) {
		ve.TooLong("title", maxLen)
	}
	if tv.validator.HasControlCharacters(trimmed) {
		ve.BadCharacters("title")
	}
}

func (tv *TaskValidator) checkDescription(ve *ValidationError, description string) {
	maxLen := tv.validator.getDescriptionMaxLength()
	if !tv.validator.IsValidStringLength(description, 1, maxLen) {
		ve.TooLong("description", maxLen)
	}
}

func (tv *TaskValidator) checkStatus(ve *ValidationError, status domain.TaskStatus) {
	if !tv.validator.IsNonEmptyString(string(status)) {
		return
	}
	if !status.IsValid() {
		ve.NotOneOf("status", statusNames())
	}
}

func (tv *TaskValidator) checkPriority(ve *ValidationError, priority domain.TaskPriority) {
	if !tv.validator.IsNonEmptyString(string(priority)) {
		return
	}
	if !priority.IsValid() {
		ve.NotOneOf("priority", priorityNames())
	}
}

func statusNames() []string {
	names := make([]string, len(domain.TaskStatuses))
	for i, s := range domain.TaskStatuses {
		names[i] = string(s)
	}
	return names
}

func priorityNames() []string {
	names := make([]string, len(domain.TaskPriorities))
	for i, p := range domain.TaskPriorities {
		names[i] = string(p)
	}
	return names
}
