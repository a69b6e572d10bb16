package api

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/errors"
)

// decodeBody strictly decodes the JSON request body into v. Unknown fields,
// wrongly typed fields and trailing data are rejected. An empty body decodes
// as an empty object.
func decodeBody(c *fiber.Ctx, v interface{}) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		return errors.NewInvalidInputError("body", nil, describeDecodeError(err))
	}
	if _, err := decoder.Token(); !stderrors.Is(err, io.EOF) {
		return errors.NewInvalidInputError("body", nil, "unexpected data after JSON object")
	}
	return nil
}

func describeDecodeError(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case stderrors.As(err, &typeErr):
		if typeErr.Field == "" {
			return fmt.Sprintf("expected a JSON object, got %s", typeErr.Value)
		}
		return fmt.Sprintf("field %q must be a %s", typeErr.Field, typeErr.Type.Kind())
	case stderrors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case stderrors.Is(err, io.ErrUnexpectedEOF):
		return "malformed JSON"
	default:
		return strings.TrimPrefix(err.Error(), "json: ")
	}
}
