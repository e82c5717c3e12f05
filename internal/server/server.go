// Package server adapts net/http to the dispatch engine. It converts
// inbound requests into dispatch.Request values, hands them to the
// dispatcher and writes the resulting response back to the wire.
package server

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/avrouter/internal/dispatch"
	"github.com/vyrodovalexey/avrouter/internal/observability"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	defaultShutdownDrain     = 15 * time.Second
)

// Server serves dispatched responses over HTTP. The dispatcher is held
// behind an atomic pointer so configuration reloads can swap it without
// interrupting in-flight requests.
type Server struct {
	addr       string
	dispatcher atomic.Pointer[dispatch.Dispatcher]
	logger     observability.Logger
	tracer     *observability.Tracer
	rateLimit  *RateLimitConfig
	httpServer *http.Server
}

// Option is a functional option for the server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithTracer enables per-request tracing spans.
func WithTracer(tracer *observability.Tracer) Option {
	return func(s *Server) {
		s.tracer = tracer
	}
}

// WithRateLimit enables the rate limiting middleware.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(s *Server) {
		s.rateLimit = &cfg
	}
}

// New creates a server for the given bind address and dispatcher.
func New(addr string, dispatcher *dispatch.Dispatcher, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		logger: observability.NopLogger(),
	}
	s.dispatcher.Store(dispatcher)
	for _, opt := range opts {
		opt(s)
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}
	return s
}

// SetDispatcher swaps the dispatcher. In-flight requests keep the
// dispatcher they started with.
func (s *Server) SetDispatcher(dispatcher *dispatch.Dispatcher) {
	s.dispatcher.Store(dispatcher)
}

// Handler returns the server's full middleware chain.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = http.HandlerFunc(s.serve)
	if s.rateLimit != nil {
		handler = RateLimit(*s.rateLimit)(handler)
	}
	handler = Logging(s.logger)(handler)
	handler = RequestID()(handler)
	handler = Recovery(s.logger)(handler)
	return handler
}

// Start listens and serves until Shutdown is called. It returns nil
// after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server listening", observability.String("addr", s.addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// serve converts one HTTP request, dispatches it and writes the
// response.
func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, "dispatch",
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()
	}

	resp := s.dispatcher.Load().Dispatch(toRequest(r).WithContext(ctx))

	if span != nil {
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}
	writeResponse(w, resp)
}

// toRequest builds the engine request. Segments come from the escaped
// request URI so percent-encoded separators survive until parameter
// binding; the engine strips the query string itself.
func toRequest(r *http.Request) *dispatch.Request {
	req := dispatch.NewRequest(
		dispatch.Method(strings.ToUpper(r.Method)),
		r.URL.RequestURI(),
	)
	req.Headers = r.Header

	for name, values := range r.URL.Query() {
		req.Params[name] = values
	}
	if isFormRequest(r) {
		if err := r.ParseForm(); err == nil {
			for name, values := range r.PostForm {
				req.Params[name] = append(req.Params[name], values...)
			}
		}
	}
	return req
}

// isFormRequest reports whether the body carries form-encoded
// parameters the engine should see in Params.
func isFormRequest(r *http.Request) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	contentType := r.Header.Get("Content-Type")
	return strings.HasPrefix(contentType, "application/x-www-form-urlencoded")
}

// writeResponse writes headers in their merged order, then status and
// body.
func writeResponse(w http.ResponseWriter, resp *dispatch.Response) {
	for _, h := range resp.Headers {
		w.Header().Add(h.Name, h.Value)
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}
