package api

import (
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", statusCode(http.StatusNotFound))
	assert.Equal(t, "METHOD_NOT_ALLOWED", statusCode(http.StatusMethodNotAllowed))
	assert.Equal(t, "HTTP_ERROR", statusCode(799))
}

func TestDescribeDecodeError(t *testing.T) {
	assert.Equal(t, "malformed JSON", describeDecodeError(io.ErrUnexpectedEOF))
	assert.Equal(t, `unknown field "owner"`, describeDecodeError(errors.New(`json: unknown field "owner"`)))
}
