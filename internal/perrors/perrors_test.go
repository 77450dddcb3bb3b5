package perrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("Missing required fields: title"), http.StatusBadRequest},
		{Unauthorized("Invalid token"), http.StatusUnauthorized},
		{NotFound("Board not found"), http.StatusNotFound},
		{Conflict("Email already registered"), http.StatusConflict},
		{Internal("boom", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		perr, ok := As(tc.err)
		assert.True(t, ok)
		assert.Equal(t, tc.want, perr.HttpStatus())
	}
}

func TestAsThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create board: %w", NotFound("Board not found"))

	perr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "Board not found", perr.Message)
	assert.True(t, Is(wrapped, ErrCodeNotFound))
	assert.False(t, Is(wrapped, ErrCodeConflict))
}

func TestCauseIsUnwrappable(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("query failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}
