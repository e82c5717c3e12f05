package dispatch

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/vyrodovalexey/avrouter/internal/observability"
)

// Dispatcher orchestrates the request lifecycle: matching, preflight
// handling, parameter binding, authorization, handler invocation,
// failure classification and response header merging.
type Dispatcher struct {
	table      *Table
	authorizer Authorizer
	defaults   []Header
	logger     observability.Logger
	metrics    *Metrics
}

// Option is a functional option for the dispatcher.
type Option func(*Dispatcher)

// WithTable sets the route table. Useful when routes are registered
// ahead of dispatcher construction.
func WithTable(table *Table) Option {
	return func(d *Dispatcher) {
		d.table = table
	}
}

// WithAuthorizer sets the authorization collaborator.
func WithAuthorizer(authorizer Authorizer) Option {
	return func(d *Dispatcher) {
		d.authorizer = authorizer
	}
}

// WithDefaultHeader appends one default response header. Defaults keep
// their registration order when merged.
func WithDefaultHeader(name, value string) Option {
	return func(d *Dispatcher) {
		d.defaults = append(d.defaults, Header{Name: name, Value: value})
	}
}

// WithDefaultHeaders appends default response headers in order.
func WithDefaultHeaders(headers []Header) Option {
	return func(d *Dispatcher) {
		d.defaults = append(d.defaults, headers...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates a dispatcher.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		logger:  observability.NopLogger(),
		metrics: GetMetrics(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.table == nil {
		d.table = NewTable()
	}
	return d
}

// Table returns the dispatcher's route table.
func (d *Dispatcher) Table() *Table {
	return d.table
}

// RegisterService registers a handler under the given route config.
// A returned error means the host application is misconfigured
// (non-absolute or conflicting pattern) and must be treated as fatal.
func (d *Dispatcher) RegisterService(handler Handler, cfg RouteConfig) error {
	if handler == nil {
		return fmt.Errorf("register %s %s: handler is nil", cfg.Method, cfg.Path)
	}

	rt, err := NewRoute(cfg, handler)
	if err != nil {
		return err
	}
	if err := d.table.Register(rt); err != nil {
		return err
	}

	d.logger.Info("registered route",
		observability.String("method", rt.Method.String()),
		observability.String("path", rt.Pattern),
		observability.Bool("protected", rt.Role != ""),
	)
	return nil
}

// Dispatch resolves and executes the request. It is total: every code
// path, panicking handlers included, produces a response. The returned
// response always carries the dispatcher's default headers merged
// beneath any handler-set headers.
func (d *Dispatcher) Dispatch(req *Request) *Response {
	start := time.Now()

	resp := d.mergeHeaders(d.resolve(req))

	d.metrics.requestsTotal.WithLabelValues(
		req.Method.String(), strconv.Itoa(resp.StatusCode)).Inc()
	d.metrics.requestDuration.WithLabelValues(
		req.Method.String()).Observe(time.Since(start).Seconds())

	return resp
}

// resolve runs the lifecycle up to and including handler invocation.
func (d *Dispatcher) resolve(req *Request) *Response {
	byMethod := d.table.Match(req.Segments)
	if len(byMethod) == 0 {
		d.metrics.failuresTotal.WithLabelValues(failurePathNotFound).Inc()
		return NewResponse(http.StatusNotFound)
	}

	// Preflight requests only probe whether the path is reachable at
	// all; they succeed for every registered path.
	if req.Method == MethodOptions {
		return NewResponse(http.StatusOK)
	}

	rt, ok := byMethod[req.Method]
	if !ok {
		rt, ok = byMethod[MethodAny]
	}
	if !ok {
		d.metrics.failuresTotal.WithLabelValues(failureMethodNotAllowed).Inc()
		return NewResponse(http.StatusMethodNotAllowed)
	}

	rt.bind(req)

	if rt.Role != "" {
		allowed, err := d.authorize(req, rt.Role)
		if err != nil {
			return d.internalFailure(req, rt, err)
		}
		if !allowed {
			d.metrics.failuresTotal.WithLabelValues(failureUnauthorized).Inc()
			d.logger.WithContext(req.Context()).Debug("request unauthorized",
				observability.String("method", req.Method.String()),
				observability.String("path", joinSegments(req.Segments)),
				observability.String("role", rt.Role),
			)
			return NewResponse(http.StatusUnauthorized)
		}
	}

	resp, err := d.invoke(rt, req)
	if err != nil {
		if errors.Is(err, ErrInvalidParameters) {
			d.metrics.failuresTotal.WithLabelValues(failureInvalidParameters).Inc()
			d.logger.WithContext(req.Context()).Debug("request failed validation",
				observability.String("method", req.Method.String()),
				observability.String("path", joinSegments(req.Segments)),
				observability.Error(err),
			)
			return NewResponse(http.StatusBadRequest)
		}
		return d.internalFailure(req, rt, err)
	}
	if resp == nil {
		return d.internalFailure(req, rt, errors.New("handler returned no response"))
	}
	return resp
}

// authorize consults the authorization collaborator inside a panic
// boundary. A nil authorizer denies every role-guarded route.
func (d *Dispatcher) authorize(req *Request, role string) (allowed bool, err error) {
	if d.authorizer == nil {
		return false, nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("authorization panic: %v\n%s", r, debug.Stack())
		}
	}()
	return d.authorizer.Authorize(req, role), nil
}

// invoke calls the handler inside a panic boundary.
func (d *Dispatcher) invoke(rt *Route, req *Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = fmt.Errorf("handler panic: %v\n%s", r, debug.Stack())
		}
	}()
	return rt.Handler(req)
}

// internalFailure logs an unclassified failure and produces a bare 500.
// Only this failure kind is logged at error level: it indicates a
// defect, not a client mistake. The response body stays empty so no
// internal detail leaks to the caller.
func (d *Dispatcher) internalFailure(req *Request, rt *Route, err error) *Response {
	d.metrics.failuresTotal.WithLabelValues(failureInternal).Inc()
	d.logger.WithContext(req.Context()).Error("handler failure",
		observability.String("method", req.Method.String()),
		observability.String("path", joinSegments(req.Segments)),
		observability.String("route", rt.Pattern),
		observability.Error(err),
	)
	return NewResponse(http.StatusInternalServerError)
}

// mergeHeaders overlays the response headers onto the dispatcher's
// defaults: defaults keep their original order, a response value wins
// over a default of the same name, response-only headers follow. Status,
// body and everything else pass through untouched.
func (d *Dispatcher) mergeHeaders(resp *Response) *Response {
	merged := &Response{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
		Headers:    make([]Header, 0, len(d.defaults)+len(resp.Headers)),
	}

	for _, def := range d.defaults {
		value := def.Value
		if v, ok := resp.Header(def.Name); ok {
			value = v
		}
		merged.Headers = append(merged.Headers, Header{Name: def.Name, Value: value})
	}

	for _, h := range resp.Headers {
		if _, ok := defaultsContain(d.defaults, h.Name); !ok {
			merged.Headers = append(merged.Headers, h)
		}
	}
	return merged
}

// defaultsContain looks up a default header by name, case-insensitively.
func defaultsContain(defaults []Header, name string) (string, bool) {
	for _, def := range defaults {
		if strings.EqualFold(def.Name, name) {
			return def.Value, true
		}
	}
	return "", false
}

// joinSegments renders segments as an absolute path for log output.
func joinSegments(segments []string) string {
	return "/" + strings.Join(segments, "/")
}
