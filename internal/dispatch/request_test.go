package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected Method
		wantErr  bool
	}{
		{name: "get", input: "GET", expected: MethodGet},
		{name: "lowercase", input: "delete", expected: MethodDelete},
		{name: "padded", input: " post ", expected: MethodPost},
		{name: "wildcard", input: "*", expected: MethodAny},
		{name: "unknown", input: "FETCH", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			method, err := ParseMethod(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, method)
		})
	}
}

func TestRequestHeaderLookup(t *testing.T) {
	t.Parallel()

	req := NewRequest(MethodGet, "/a")
	req.SetHeader("Content-Type", "application/json")
	req.SetHeader("X-Custom", "one")
	req.SetHeader("X-Custom", "two")

	// Stored case-sensitively, looked up case-insensitively.
	assert.Equal(t, "application/json", req.Header("content-type"))
	assert.Equal(t, "application/json", req.Header("CONTENT-TYPE"))
	assert.Equal(t, "one", req.Header("x-custom"))
	assert.Equal(t, []string{"one", "two"}, req.HeaderValues("X-Custom"))
	assert.Empty(t, req.Header("Missing"))
	assert.Nil(t, req.HeaderValues("Missing"))
}

func TestRequestParams(t *testing.T) {
	t.Parallel()

	req := NewRequest(MethodGet, "/search?q=x")
	req.Params["q"] = []string{"router", "engine"}

	assert.Equal(t, "router", req.Param("q"))
	assert.Empty(t, req.Param("page"))
	assert.Equal(t, []string{"search"}, req.Segments)
}

func TestRequestContext(t *testing.T) {
	t.Parallel()

	req := NewRequest(MethodGet, "/a")
	require.NotNil(t, req.Context())

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	req.WithContext(ctx)
	assert.Equal(t, "v", req.Context().Value(key{}))
}

func TestRequestPathParamsBeforeBinding(t *testing.T) {
	t.Parallel()

	req := NewRequest(MethodGet, "/person/42")
	assert.False(t, req.Bound())
	assert.Empty(t, req.PathParam("id"))
	assert.Empty(t, req.PathParamAt(1))
}
