package dispatch

import "strings"

// SplitPath normalizes a raw request path into its non-empty segments.
//
// Everything from the first '?' onward is dropped, a trailing slash is
// stripped, and empty segments from consecutive or leading slashes are
// omitted, so "a/b", "/a/b", "/a/b/" and "/a/b?x=1" all yield
// ["a","b"]. The function is total: every input produces a valid, possibly
// empty, segment list.
func SplitPath(raw string) []string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSuffix(raw, "/")

	parts := strings.Split(raw, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
