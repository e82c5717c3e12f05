package dispatch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "empty", raw: "", expected: []string{}},
		{name: "root", raw: "/", expected: []string{}},
		{name: "absolute", raw: "/a/b", expected: []string{"a", "b"}},
		{name: "relative", raw: "a/b", expected: []string{"a", "b"}},
		{name: "trailing slash", raw: "/a/b/", expected: []string{"a", "b"}},
		{name: "query string stripped", raw: "/a/b?x=1", expected: []string{"a", "b"}},
		{name: "query only", raw: "?x=1", expected: []string{}},
		{name: "consecutive slashes", raw: "/a//b", expected: []string{"a", "b"}},
		{name: "encoded separator stays one segment", raw: "/third/456%2F7", expected: []string{"third", "456%2F7"}},
		{name: "single segment", raw: "/status", expected: []string{"status"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, SplitPath(tt.raw))
		})
	}
}

func TestSplitPathIdempotent(t *testing.T) {
	t.Parallel()

	paths := []string{"", "/", "/a/b/", "a/b", "/a//b?x=1", "/person/42"}
	for _, raw := range paths {
		segments := SplitPath(raw)
		rendered := "/" + strings.Join(segments, "/")
		assert.Equal(t, segments, SplitPath(rendered), "path %q", raw)
	}
}

func TestSplitPathEquivalences(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SplitPath(""), SplitPath("/"))
	assert.Equal(t, []string{"a", "b"}, SplitPath("/a/b/"))
	assert.Equal(t, SplitPath("/a/b/"), SplitPath("a/b"))
	assert.Equal(t, SplitPath("a/b"), SplitPath("/a/b?x=1"))
}
