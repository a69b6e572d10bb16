package api

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/errors"
	"taskflow/internal/validation"
)

// writeError renders err as an ErrorResponse. Storage and unexpected
// failures are logged; caller mistakes are not.
func writeError(c *fiber.Ctx, logger *slog.Logger, err error) error {
	if errors.ShouldLogError(err) {
		attrs := []any{"method", c.Method(), "path", c.Path(), "error", err}
		if appErr, ok := errors.AsAppError(err); ok {
			attrs = append(attrs, appErr.LogAttrs()...)
		}
		logger.Error("request failed", attrs...)
	}

	return c.Status(errors.HTTPStatus(err)).JSON(ErrorResponse{
		Message: errors.GetUserMessage(err),
		Code:    errors.GetErrorCode(err),
		Fields:  fieldProblems(err),
	})
}

// fieldProblems lists the failed checks of a rejected body, grouped by field
func fieldProblems(err error) []FieldProblem {
	ve, ok := validation.AsValidationError(err)
	if !ok {
		return nil
	}

	var problems []FieldProblem
	for _, field := range ve.Fields() {
		problem := FieldProblem{Field: field}
		for _, fe := range ve.GetFieldErrors(field) {
			problem.Messages = append(problem.Messages, fe.Message)
		}
		problems = append(problems, problem)
	}
	return problems
}

// errorHandler catches errors returned by fiber itself, such as unknown
// routes and oversized bodies, and anything a handler did not render.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if stderrors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Message: fiberErr.Message,
				Code:    statusCode(fiberErr.Code),
			})
		}
		return writeError(c, logger, err)
	}
}

// statusCode turns 413 into "REQUEST_ENTITY_TOO_LARGE"
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.ReplaceAll(text, " ", "_"))
}
