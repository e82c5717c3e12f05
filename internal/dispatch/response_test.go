package dispatch

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseSetHeader(t *testing.T) {
	t.Parallel()

	resp := NewResponse(http.StatusOK)
	resp.SetHeader("Test-1", "a")
	resp.SetHeader("Test-2", "b")

	// Last write wins but the original position is kept.
	resp.SetHeader("test-1", "c")

	require.Equal(t, []Header{
		{Name: "Test-1", Value: "c"},
		{Name: "Test-2", Value: "b"},
	}, resp.Headers)

	value, ok := resp.Header("TEST-2")
	assert.True(t, ok)
	assert.Equal(t, "b", value)

	_, ok = resp.Header("Test-3")
	assert.False(t, ok)
}

func TestResponseWithBody(t *testing.T) {
	t.Parallel()

	resp := NewResponse(http.StatusOK).WithBody([]byte(`{"ok":true}`))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte(`{"ok":true}`), resp.Body)

	empty := NewResponse(http.StatusNotFound)
	assert.Empty(t, empty.Body)
	assert.Empty(t, empty.Headers)
}
