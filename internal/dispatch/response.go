package dispatch

import "strings"

// Header is one response header. Responses keep headers as an ordered
// list because insertion order is significant when merging defaults.
type Header struct {
	Name  string
	Value string
}

// Response is the outcome of one dispatch. It is created fresh for
// every request and never mutated after being returned to the caller.
type Response struct {
	StatusCode int
	Headers    []Header
	Body       []byte
}

// NewResponse creates a response with the given status and an empty
// body.
func NewResponse(status int) *Response {
	return &Response{StatusCode: status}
}

// WithBody sets the response body and returns the response for
// chaining.
func (r *Response) WithBody(body []byte) *Response {
	r.Body = body
	return r
}

// SetHeader sets a header value. A header already present under the
// same name (compared case-insensitively) keeps its position and is
// overwritten; otherwise the header is appended.
func (r *Response) SetHeader(name, value string) *Response {
	for i := range r.Headers {
		if strings.EqualFold(r.Headers[i].Name, name) {
			r.Headers[i].Value = value
			return r
		}
	}
	r.Headers = append(r.Headers, Header{Name: name, Value: value})
	return r
}

// Header returns the value set for the named header and whether it is
// present. Names are compared case-insensitively.
func (r *Response) Header(name string) (string, bool) {
	for i := range r.Headers {
		if strings.EqualFold(r.Headers[i].Name, name) {
			return r.Headers[i].Value, true
		}
	}
	return "", false
}
