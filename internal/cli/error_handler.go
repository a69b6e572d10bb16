package cli

import (
	stderrors "errors"

	"taskflow/internal/config"
	"taskflow/internal/errors"
	"taskflow/internal/validation"
)

// ErrorHandler turns command errors into messages for the terminal
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// HandleSimple returns the user-facing message of err without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if message, ok := eh.userMessage(err); ok {
		return stderrors.New(message)
	}
	return err
}

func (eh *ErrorHandler) userMessage(err error) (string, bool) {
	var configErr *config.ConfigError
	if stderrors.As(err, &configErr) {
		return "invalid configuration: " + configErr.Error(), true
	}

	if ve, ok := validation.AsValidationError(err); ok && !errors.IsAppError(err) {
		return ve.GetUserFriendlyMessage(), true
	}

	if errors.IsAppError(err) {
		return errors.GetUserMessage(err), true
	}
	return "", false
}
