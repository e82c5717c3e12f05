package dispatch

import (
	"net/url"
	"strings"
)

// segment is one parsed pattern segment: either a literal that must
// equal the request segment, or a placeholder that binds any value.
type segment struct {
	literal string
	param   string
	isParam bool
}

// parsePattern parses an absolute path pattern into segments. The three
// placeholder syntaxes {name}, :name and @name are interchangeable.
func parsePattern(pattern string) ([]segment, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, &PatternError{Pattern: pattern, Message: "pattern must be absolute"}
	}

	parts := SplitPath(pattern)
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		name, isPlaceholder, err := placeholderName(pattern, part)
		if err != nil {
			return nil, err
		}
		if isPlaceholder {
			segments = append(segments, segment{param: name, isParam: true})
		} else {
			segments = append(segments, segment{literal: part})
		}
	}
	return segments, nil
}

// placeholderName unwraps a pattern segment written in any of the
// placeholder syntaxes and returns the contained parameter name.
func placeholderName(pattern, part string) (name string, ok bool, err error) {
	switch {
	case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
		name, ok = part[1:len(part)-1], true
	case strings.HasPrefix(part, ":"):
		name, ok = part[1:], true
	case strings.HasPrefix(part, "@"):
		name, ok = part[1:], true
	default:
		return "", false, nil
	}
	if name == "" {
		return "", false, &PatternError{Pattern: pattern, Message: "placeholder has empty name"}
	}
	return name, true, nil
}

// overlaps reports whether two patterns can match the same request
// path: equal segment counts and, at every position, equal literals or
// a placeholder on either side. Placeholder names are irrelevant, so
// /p/{id} and /p/:key occupy the same pattern slot.
func overlaps(a, b []segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].isParam || b[i].isParam {
			continue
		}
		if a[i].literal != b[i].literal {
			return false
		}
	}
	return true
}

// matches reports whether the parsed pattern matches the request
// segments: equal counts and, per position, a literal equal to the
// request segment or a placeholder accepting any value.
func matches(pattern []segment, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i := range pattern {
		if pattern[i].isParam {
			continue
		}
		if pattern[i].literal != segments[i] {
			return false
		}
	}
	return true
}

// decodeSegment percent-decodes one matched request segment. Decoding
// never re-splits the segment: %2F becomes a literal slash inside the
// bound value. Undecodable input binds as-is.
func decodeSegment(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}
