package dispatch

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(req *Request) (*Response, error) {
	return NewResponse(http.StatusOK), nil
}

func mustRoute(t *testing.T, method Method, path string) *Route {
	t.Helper()
	rt, err := NewRoute(RouteConfig{Method: method, Path: path}, okHandler)
	require.NoError(t, err)
	return rt
}

func TestTableRegister(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Register(mustRoute(t, MethodGet, "/person")))
	require.NoError(t, table.Register(mustRoute(t, MethodPost, "/person")))
	require.NoError(t, table.Register(mustRoute(t, MethodGet, "/person/{id}")))
	assert.Equal(t, 3, table.Len())
}

func TestTableRegisterConflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		first    [2]string // method, path
		second   [2]string
		conflict bool
	}{
		{
			name:     "identical route",
			first:    [2]string{"GET", "/person"},
			second:   [2]string{"GET", "/person"},
			conflict: true,
		},
		{
			name:     "same slot different placeholder syntax",
			first:    [2]string{"GET", "/p/{id}"},
			second:   [2]string{"GET", "/p/:id"},
			conflict: true,
		},
		{
			name:     "literal overlaps placeholder",
			first:    [2]string{"GET", "/test/:id"},
			second:   [2]string{"GET", "/test/test2"},
			conflict: true,
		},
		{
			name:     "wildcard vs wildcard",
			first:    [2]string{"*", "/p/{id}"},
			second:   [2]string{"*", "/p/@key"},
			conflict: true,
		},
		{
			name:     "different methods share pattern",
			first:    [2]string{"GET", "/person"},
			second:   [2]string{"DELETE", "/person"},
			conflict: false,
		},
		{
			name:     "wildcard and specific share pattern",
			first:    [2]string{"*", "/person"},
			second:   [2]string{"GET", "/person"},
			conflict: false,
		},
		{
			name:     "different lengths",
			first:    [2]string{"GET", "/person"},
			second:   [2]string{"GET", "/person/{id}"},
			conflict: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			table := NewTable()
			require.NoError(t, table.Register(mustRoute(t, Method(tt.first[0]), tt.first[1])))

			err := table.Register(mustRoute(t, Method(tt.second[0]), tt.second[1]))
			if tt.conflict {
				require.Error(t, err)
				var conflictErr *RouteConflictError
				assert.True(t, errors.As(err, &conflictErr))
				assert.Equal(t, tt.first[1], conflictErr.Existing)
				assert.Equal(t, 1, table.Len())
			} else {
				require.NoError(t, err)
				assert.Equal(t, 2, table.Len())
			}
		})
	}
}

func TestTableMatch(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Register(mustRoute(t, MethodGet, "/person/{id}")))
	require.NoError(t, table.Register(mustRoute(t, MethodDelete, "/person/:id")))
	require.NoError(t, table.Register(mustRoute(t, MethodAny, "/status")))

	byMethod := table.Match([]string{"person", "42"})
	require.Len(t, byMethod, 2)
	assert.Contains(t, byMethod, MethodGet)
	assert.Contains(t, byMethod, MethodDelete)

	byMethod = table.Match([]string{"status"})
	require.Len(t, byMethod, 1)
	assert.Contains(t, byMethod, MethodAny)

	assert.Nil(t, table.Match([]string{"nowhere"}))
	assert.Nil(t, table.Match([]string{"person", "42", "extra"}))
}

func TestTableConcurrentRegistrationAndMatch(t *testing.T) {
	t.Parallel()

	table := NewTable()
	require.NoError(t, table.Register(mustRoute(t, MethodGet, "/seed")))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			rt, err := NewRoute(RouteConfig{
				Method: MethodGet,
				Path:   fmt.Sprintf("/concurrent/%d", n),
			}, okHandler)
			if err == nil {
				_ = table.Register(rt)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				byMethod := table.Match([]string{"seed"})
				if len(byMethod) != 1 {
					t.Error("seed route lost during concurrent registration")
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 9, table.Len())
}
