package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryStatus(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{Validation("content", "too long"), http.StatusBadRequest},
		{Unauthorized("missing token"), http.StatusUnauthorized},
		{Forbidden("not a member"), http.StatusForbidden},
		{NotFound("post"), http.StatusNotFound},
		{Conflict("already friends"), http.StatusConflict},
		{Internal("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.Status, tc.err.Error())
	}
}

func TestErrorMessageIncludesField(t *testing.T) {
	assert.Equal(t, "VALIDATION_ERROR: too long (field: content)", Validation("content", "too long").Error())
	assert.Equal(t, "NOT_FOUND: post not found", NotFound("post").Error())
}

func TestWrapAndIs(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("loading feed: %w", Wrap(cause, "could not load feed"))

	assert.True(t, Is(err, CodeInternal))
	assert.False(t, Is(err, CodeNotFound))
	assert.ErrorIs(t, err, cause)

	appErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, "could not load feed", appErr.Message)
}

func TestUnknownCodeMapsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Code("NOPE").StatusCode())
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeForStatus(http.StatusNotFound))
	assert.Equal(t, CodeUnauthorized, CodeForStatus(http.StatusUnauthorized))
	assert.Equal(t, CodeValidation, CodeForStatus(http.StatusMethodNotAllowed))
	assert.Equal(t, CodeInternal, CodeForStatus(http.StatusBadGateway))
}
