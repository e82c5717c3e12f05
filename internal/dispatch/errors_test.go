package dispatch

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidParametersError(t *testing.T) {
	t.Parallel()

	err := NewInvalidParametersError("age must be numeric")
	assert.Equal(t, "invalid parameters: age must be numeric", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidParameters))
	assert.Nil(t, err.Unwrap())
}

func TestInvalidParametersErrorWithCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("strconv.Atoi: parsing")
	err := NewInvalidParametersErrorWithCause("bad age", cause)

	assert.True(t, errors.Is(err, ErrInvalidParameters))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "bad age")

	// The mark survives further wrapping.
	wrapped := fmt.Errorf("handling request: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInvalidParameters))
}

func TestPatternError(t *testing.T) {
	t.Parallel()

	err := &PatternError{Pattern: "a/b", Message: "pattern must be absolute"}
	assert.Contains(t, err.Error(), `"a/b"`)

	var target *PatternError
	assert.True(t, errors.As(fmt.Errorf("register: %w", err), &target))
}

func TestRouteConflictError(t *testing.T) {
	t.Parallel()

	err := &RouteConflictError{Method: MethodGet, Pattern: "/p/{id}", Existing: "/p/:id"}
	assert.Equal(t, "route GET /p/{id} conflicts with registered route /p/:id", err.Error())
}
