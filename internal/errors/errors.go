package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Attrs: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Attrs: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Attrs: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewAuthorizationError reports a caller acting on a record it does not own.
func NewAuthorizationError(operation string, resource string) *AppError {
	return &AppError{
		Type:    ErrorTypeAuthorization,
		Message: "Not authorized",
		Code:    "NOT_AUTHORIZED",
		Attrs: map[string]interface{}{
			"operation": operation,
			"resource":  resource,
		},
	}
}

// NewAuthenticationError reports a missing, malformed or invalid credential.
func NewAuthenticationError(reason string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeAuthentication,
		Message: reason,
		Code:    "NOT_AUTHENTICATED",
		Cause:   cause,
	}
}

// NewConflictError creates a new conflict error for duplicate records
func NewConflictError(resource string, field string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: fmt.Sprintf("%s with this %s already exists", resource, field),
		Code:    "CONFLICT",
		Attrs: map[string]interface{}{
			"resource": resource,
			"field":    field,
		},
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// HTTPStatus maps an error to the response status sent to the client.
// Anything that is not an AppError is an unexpected failure.
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type.Status()
	}
	return http.StatusInternalServerError
}

// friendlyMessager is implemented by causes that know how to describe
// themselves to an end user, such as field validation errors.
type friendlyMessager interface {
	GetUserFriendlyMessage() string
}

// GetUserMessage returns the message sent to the client.
// Storage failures carry the underlying message verbatim.
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation:
			var friendly friendlyMessager
			if errors.As(appErr.Cause, &friendly) {
				return friendly.GetUserFriendlyMessage()
			}
			return appErr.Message
		case ErrorTypeDatabase:
			if appErr.Cause != nil {
				return appErr.Cause.Error()
			}
			return appErr.Message
		default:
			return appErr.Message
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError reports whether err is a server fault rather than a caller mistake
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type.Logged()
	}
	return true
}
