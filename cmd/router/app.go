package main

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vyrodovalexey/avrouter/internal/authz"
	"github.com/vyrodovalexey/avrouter/internal/config"
	"github.com/vyrodovalexey/avrouter/internal/dispatch"
	"github.com/vyrodovalexey/avrouter/internal/health"
	"github.com/vyrodovalexey/avrouter/internal/observability"
	"github.com/vyrodovalexey/avrouter/internal/server"
)

// application holds the initialized components of the router.
type application struct {
	config        *config.Config
	logger        observability.Logger
	tracer        *observability.Tracer
	server        *server.Server
	health        *health.Checker
	metricsServer *http.Server
}

// initApplication builds the application from configuration.
func initApplication(cfg *config.Config, logger observability.Logger) (*application, error) {
	tracer, err := observability.NewTracer(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	dispatcher, err := buildDispatcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	srv := server.New(cfg.Listen, dispatcher,
		server.WithLogger(logger),
		server.WithTracer(tracer),
	)

	checker := health.NewChecker(version)
	checker.SetRoutes(len(cfg.Routes))

	app := &application{
		config: cfg,
		logger: logger,
		tracer: tracer,
		server: srv,
		health: checker,
	}
	if cfg.MetricsListen != "" {
		app.metricsServer = createMetricsServer(cfg.MetricsListen, checker, logger)
	}
	return app, nil
}

// buildDispatcher builds a dispatcher from configuration: authorizer,
// default headers and one registered service per configured route.
func buildDispatcher(cfg *config.Config, logger observability.Logger) (*dispatch.Dispatcher, error) {
	opts := []dispatch.Option{dispatch.WithLogger(logger)}

	authorizer, err := buildAuthorizer(cfg.Authorization, logger)
	if err != nil {
		return nil, err
	}
	if authorizer != nil {
		opts = append(opts, dispatch.WithAuthorizer(authorizer))
	}

	for _, h := range cfg.DefaultHeaders {
		opts = append(opts, dispatch.WithDefaultHeader(h.Name, h.Value))
	}

	dispatcher := dispatch.New(opts...)
	for _, route := range cfg.Routes {
		err := dispatcher.RegisterService(directHandler(route.Response), dispatch.RouteConfig{
			Method:         dispatch.Method(route.Method),
			Path:           route.Path,
			AuthorizedRole: route.Role,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register route %s: %w", route.Name, err)
		}
	}
	return dispatcher, nil
}

// buildAuthorizer builds the configured authorization collaborator, or
// nil when no mode is set.
func buildAuthorizer(cfg config.AuthorizationConfig, logger observability.Logger) (dispatch.Authorizer, error) {
	switch cfg.Mode {
	case config.AuthorizationModeNone:
		return nil, nil

	case config.AuthorizationModeStatic:
		opts := []authz.StaticOption{authz.WithStaticLogger(logger)}
		if cfg.PrincipalHeader != "" {
			opts = append(opts, authz.WithPrincipalHeader(cfg.PrincipalHeader))
		}
		return authz.NewStaticAuthorizer(cfg.Static, opts...), nil

	case config.AuthorizationModeJWT:
		return authz.NewJWTAuthorizer(cfg.JWT, authz.WithJWTLogger(logger))

	default:
		return nil, fmt.Errorf("unknown authorization mode %q", cfg.Mode)
	}
}

// paramRefPattern matches {name} references in direct response bodies.
var paramRefPattern = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// directHandler builds a handler serving the configured static
// response. {name} references in the body are substituted with the
// bound path parameter of that name.
func directHandler(resp config.DirectResponse) dispatch.Handler {
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}

	refs := make([]string, 0)
	for _, match := range paramRefPattern.FindAllStringSubmatch(resp.Body, -1) {
		refs = append(refs, match[1])
	}

	return func(req *dispatch.Request) (*dispatch.Response, error) {
		body := resp.Body
		for _, name := range refs {
			body = strings.ReplaceAll(body, "{"+name+"}", req.PathParam(name))
		}

		out := dispatch.NewResponse(status).WithBody([]byte(body))
		for _, h := range resp.Headers {
			out.SetHeader(h.Name, h.Value)
		}
		return out, nil
	}
}

// createMetricsServer creates the metrics HTTP server, which also
// hosts the health probes.
func createMetricsServer(addr string, checker *health.Checker, logger observability.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ready", checker.ReadinessHandler())
	mux.HandleFunc("/live", checker.LivenessHandler())

	logger.Info("metrics endpoint enabled",
		observability.String("address", addr),
		observability.String("path", "/metrics"),
	)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}
