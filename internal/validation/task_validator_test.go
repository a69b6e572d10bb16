package validation

import (
	"strings"
	"testing"

	"taskflow/internal/config"
	"taskflow/internal/domain"
)

func TestTaskValidator_ValidateNewTask(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		input       domain.NewTask
		expectError bool
		field       string
		rule        Rule
	}{
		{
			name:  "Valid with defaults",
			input: domain.NewTask{Title: "Buy milk", Description: "2 litres"},
		},
		{
			name:  "Valid with status and priority",
			input: domain.NewTask{Title: "Ship", Description: "release", Status: domain.StatusInProgress, Priority: domain.PriorityHigh},
		},
		{
			name:        "Missing title",
			input:       domain.NewTask{Description: "2 litres"},
			expectError: true,
			field:       "title",
			rule:        RuleRequired,
		},
		{
			name:        "Blank description",
			input:       domain.NewTask{Title: "Buy milk", Description: "   "},
			expectError: true,
			field:       "description",
			rule:        RuleRequired,
		},
		{
			name:        "Unknown status",
			input:       domain.NewTask{Title: "Buy milk", Description: "d", Status: "done"},
			expectError: true,
			field:       "status",
			rule:        RuleOneOf,
		},
		{
			name:        "Unknown priority",
			input:       domain.NewTask{Title: "Buy milk", Description: "d", Priority: "urgent"},
			expectError: true,
			field:       "priority",
			rule:        RuleOneOf,
		},
		{
			name:        "Title with newline",
			input:       domain.NewTask{Title: "Buy\nmilk", Description: "d"},
			expectError: true,
			field:       "title",
			rule:        RuleCharacters,
		},
		{
			name:        "Title too long",
			input:       domain.NewTask{Title: strings.Repeat("a", 201), Description: "d"},
			expectError: true,
			field:       "title",
			rule:        RuleLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateNewTask(tt.input)

			if !tt.expectError {
				if err != nil {
					t.Errorf("ValidateNewTask() unexpected error = %v", err)
				}
				return
			}

			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("ValidateNewTask() error = %v, expected *ValidationError", err)
			}
			fieldErrors := ve.GetFieldErrors(tt.field)
			if len(fieldErrors) == 0 {
				t.Fatalf("expected an error for field %q, got %v", tt.field, ve.Errors)
			}
			if fieldErrors[0].Rule != tt.rule {
				t.Errorf("rule = %v, expected %v", fieldErrors[0].Rule, tt.rule)
			}
		})
	}
}

func TestTaskValidator_RequiredMessage(t *testing.T) {
	validator := NewTaskValidator()

	err := validator.ValidateNewTask(domain.NewTask{})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if got := ve.GetUserFriendlyMessage(); got != TitleAndDescriptionRequired {
		t.Errorf("GetUserFriendlyMessage() = %q, expected %q", got, TitleAndDescriptionRequired)
	}
}

func TestTaskValidator_ValidateTaskPatch(t *testing.T) {
	validator := NewTaskValidator()

	tests := []struct {
		name        string
		patch       domain.TaskPatch
		expectError bool
	}{
		{"Empty patch", domain.TaskPatch{}, false},
		{"Blank fields are ignored", domain.TaskPatch{Title: "  ", Description: ""}, false},
		{"Status only", domain.TaskPatch{Status: domain.StatusCompleted}, false},
		{"Unknown status", domain.TaskPatch{Status: "archived"}, true},
		{"Unknown priority", domain.TaskPatch{Priority: "HIGH"}, true},
		{"Title too long", domain.TaskPatch{Title: strings.Repeat("x", 300)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTaskPatch(tt.patch)
			if (err != nil) != tt.expectError {
				t.Errorf("ValidateTaskPatch() error = %v, expectError %v", err, tt.expectError)
			}
		})
	}
}

func TestTaskValidator_ConfiguredDescriptionLimit(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Validation.DescriptionMaxLength = 10
	validator := NewTaskValidatorWithConfig(cfg)

	if err := validator.ValidateNewTask(domain.NewTask{Title: "t", Description: "short"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := validator.ValidateNewTask(domain.NewTask{Title: "t", Description: "far too long here"}); err == nil {
		t.Error("expected description length error")
	}
}
