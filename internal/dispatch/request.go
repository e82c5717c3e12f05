package dispatch

import (
	"context"
	"fmt"
	"strings"
)

// Method is an HTTP request method.
type Method string

// Supported methods. MethodAny is the wildcard sentinel used for routes
// that accept every method.
const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
	MethodAny     Method = "*"
)

var knownMethods = map[Method]bool{
	MethodGet:     true,
	MethodPost:    true,
	MethodPut:     true,
	MethodPatch:   true,
	MethodDelete:  true,
	MethodOptions: true,
	MethodHead:    true,
	MethodAny:     true,
}

// ParseMethod parses a method string, accepting any casing and the "*"
// wildcard.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !knownMethods[m] {
		return "", fmt.Errorf("unknown method %q", s)
	}
	return m, nil
}

// String returns the string representation of the method.
func (m Method) String() string {
	return string(m)
}

// Request represents one inbound call. The transport layer creates it,
// the dispatcher binds path parameters onto it exactly once, and it is
// read-only afterwards.
type Request struct {
	// Method is the request method.
	Method Method

	// Segments is the path split into non-empty segments, derived once
	// from the raw path via SplitPath.
	Segments []string

	// Headers holds request headers as received. Names are stored
	// case-sensitively; lookups through Header are case-insensitive.
	Headers map[string][]string

	// Params holds query/body parameters already parsed by the
	// transport layer. The engine only reads it.
	Params map[string][]string

	ctx context.Context

	pathParams      map[string]string
	pathParamsByIdx map[int]string
	bound           bool
}

// NewRequest creates a request for the given method and raw path.
func NewRequest(method Method, rawPath string) *Request {
	return &Request{
		Method:   method,
		Segments: SplitPath(rawPath),
		Headers:  make(map[string][]string),
		Params:   make(map[string][]string),
	}
}

// WithContext sets the context carried by the request and returns the
// request for chaining.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// Context returns the request's context, never nil.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// SetHeader adds a header value, keeping any existing values for the
// same name.
func (r *Request) SetHeader(name, value string) *Request {
	r.Headers[name] = append(r.Headers[name], value)
	return r
}

// Header returns the first value for the named header, matching the
// name case-insensitively. It returns "" when the header is absent.
func (r *Request) Header(name string) string {
	values := r.HeaderValues(name)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// HeaderValues returns all values for the named header, matching the
// name case-insensitively.
func (r *Request) HeaderValues(name string) []string {
	if values, ok := r.Headers[name]; ok {
		return values
	}
	for stored, values := range r.Headers {
		if strings.EqualFold(stored, name) {
			return values
		}
	}
	return nil
}

// Param returns the first parsed query/body parameter value for name.
func (r *Request) Param(name string) string {
	if values, ok := r.Params[name]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// PathParam returns the decoded path parameter bound under name. It
// returns "" before binding or when the route declares no such
// placeholder.
func (r *Request) PathParam(name string) string {
	return r.pathParams[name]
}

// PathParamAt returns the decoded path parameter bound at the given
// 0-based segment index.
func (r *Request) PathParamAt(idx int) string {
	return r.pathParamsByIdx[idx]
}

// Bound reports whether path parameters have been bound.
func (r *Request) Bound() bool {
	return r.bound
}

// setPathParam records one decoded path parameter under its placeholder
// name and its segment index.
func (r *Request) setPathParam(name string, idx int, value string) {
	if r.pathParams == nil {
		r.pathParams = make(map[string]string)
		r.pathParamsByIdx = make(map[int]string)
	}
	r.pathParams[name] = value
	r.pathParamsByIdx[idx] = value
}
