package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Rule names the check an input field failed
type Rule string

const (
	RuleRequired   Rule = "required"
	RuleFormat     Rule = "format"
	RuleLength     Rule = "length"
	RuleOneOf      Rule = "one_of"
	RuleCharacters Rule = "characters"
)

// FieldError is one failed check on one request field
type FieldError struct {
	Field   string
	Rule    Rule
	Message string
}

func (fe FieldError) Error() string {
	return fe.Field + ": " + fe.Message
}

// ValidationError collects every failed check of a request body, in the
// order the validator ran them.
type ValidationError struct {
	Errors []FieldError
}

// NewValidationError creates an empty ValidationError to collect into
func NewValidationError() *ValidationError {
	return &ValidationError{}
}

// AsValidationError finds a ValidationError in err's chain
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Error()
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any check failed
func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

// result returns ve as an error when it holds failures and nil otherwise
func (ve *ValidationError) result() error {
	if !ve.HasErrors() {
		return nil
	}
	return ve
}

func (ve *ValidationError) add(field string, rule Rule, message string) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Rule: rule, Message: message})
}

// Required reports a missing field
func (ve *ValidationError) Required(field string) {
	ve.add(field, RuleRequired, field+" is required")
}

// TooLong reports a field over its maximum length in characters
func (ve *ValidationError) TooLong(field string, max int) {
	ve.add(field, RuleLength, fmt.Sprintf("%s must be at most %d characters long", field, max))
}

// LengthBetween reports a field outside [min, max] characters
func (ve *ValidationError) LengthBetween(field string, min, max int) {
	ve.add(field, RuleLength, fmt.Sprintf("%s must be between %d and %d characters long", field, min, max))
}

// BadFormat reports a field that does not look like example
func (ve *ValidationError) BadFormat(field, example string) {
	ve.add(field, RuleFormat, fmt.Sprintf("%s must look like %s", field, example))
}

// NotOneOf reports an enum field holding an unknown value
func (ve *ValidationError) NotOneOf(field string, allowed []string) {
	ve.add(field, RuleOneOf, fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
}

// BadCharacters reports control characters in a single-line field
func (ve *ValidationError) BadCharacters(field string) {
	ve.add(field, RuleCharacters, field+" contains invalid characters")
}

// Fields lists the failed fields in the order they were first reported
func (ve *ValidationError) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, fe := range ve.Errors {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			fields = append(fields, fe.Field)
		}
	}
	return fields
}

// GetFieldErrors returns the failures reported for field
func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var fieldErrors []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			fieldErrors = append(fieldErrors, fe)
		}
	}
	return fieldErrors
}

// GetUserFriendlyMessage is the message sent to the client: the only
// failure on its own, or every failure joined.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Invalid input"
	case 1:
		return ve.Errors[0].Message
	}

	messages := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}
