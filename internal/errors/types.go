package errors

import (
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"
)

// ErrorType is the category of an AppError. It decides the response status
// and whether the failure is logged.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeAuthorization
	ErrorTypeAuthentication
	ErrorTypeConflict
)

type typeInfo struct {
	name   string
	status int
	logged bool
}

var typeInfos = map[ErrorType]typeInfo{
	ErrorTypeValidation:     {"validation", http.StatusBadRequest, false},
	ErrorTypeNotFound:       {"not_found", http.StatusNotFound, false},
	ErrorTypeDatabase:       {"database", http.StatusInternalServerError, true},
	ErrorTypeInvalidInput:   {"invalid_input", http.StatusBadRequest, false},
	ErrorTypeAuthorization:  {"authorization", http.StatusUnauthorized, false},
	ErrorTypeAuthentication: {"authentication", http.StatusUnauthorized, false},
	ErrorTypeConflict:       {"conflict", http.StatusConflict, false},
}

var unknownType = typeInfo{"unknown", http.StatusInternalServerError, true}

func (et ErrorType) info() typeInfo {
	if info, ok := typeInfos[et]; ok {
		return info
	}
	return unknownType
}

func (et ErrorType) String() string {
	return et.info().name
}

// Status is the HTTP status a failure of this type is answered with
func (et ErrorType) Status() int {
	return et.info().status
}

// Logged reports whether failures of this type are server faults. Caller
// mistakes such as bad input or a missing token are not.
func (et ErrorType) Logged() bool {
	return et.info().logged
}

// AppError is a categorised failure. Attrs names what was involved (the
// resource, the id, the storage operation) for the server log only; the
// client sees Message and Code.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Attrs   map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same type and code
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Type == appErr.Type && e.Code == appErr.Code
	}
	return false
}

func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// LogAttrs returns the error type and Attrs as slog key/value pairs,
// sorted by key.
func (e *AppError) LogAttrs() []any {
	attrs := []any{slog.String("type", e.Type.String())}
	for _, key := range slices.Sorted(maps.Keys(e.Attrs)) {
		attrs = append(attrs, slog.Any(key, e.Attrs[key]))
	}
	return attrs
}
