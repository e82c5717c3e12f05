// Package config defines the router configuration model, its YAML
// loader and the file watcher used for hot reload.
package config

import (
	"github.com/vyrodovalexey/avrouter/internal/authz"
	"github.com/vyrodovalexey/avrouter/internal/observability"
)

// Config is the root configuration document.
type Config struct {
	// Listen is the address the HTTP server binds, e.g. ":8080".
	Listen string `yaml:"listen" json:"listen"`

	// MetricsListen is the address the Prometheus endpoint binds.
	// Empty disables the endpoint.
	MetricsListen string `yaml:"metricsListen" json:"metricsListen"`

	// Logging configures the zap logger.
	Logging observability.LogConfig `yaml:"logging" json:"logging"`

	// Tracing configures the OpenTelemetry tracer.
	Tracing observability.TracerConfig `yaml:"tracing" json:"tracing"`

	// DefaultHeaders are merged beneath handler-set headers on every
	// response, in the order listed here.
	DefaultHeaders []HeaderValue `yaml:"defaultHeaders" json:"defaultHeaders"`

	// Authorization selects and configures the authorization
	// collaborator.
	Authorization AuthorizationConfig `yaml:"authorization" json:"authorization"`

	// Routes are the registered services.
	Routes []RouteConfig `yaml:"routes" json:"routes"`
}

// HeaderValue is one name/value header pair. A list of these keeps the
// order the document declares, which a plain map would lose.
type HeaderValue struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// Authorization modes.
const (
	AuthorizationModeNone   = ""
	AuthorizationModeStatic = "static"
	AuthorizationModeJWT    = "jwt"
)

// AuthorizationConfig configures the authorization collaborator.
type AuthorizationConfig struct {
	// Mode is "static", "jwt" or empty for none. With no collaborator
	// configured, role-guarded routes answer 401 and public routes
	// stay reachable.
	Mode string `yaml:"mode" json:"mode"`

	// Static maps principals to their granted roles (static mode).
	Static map[string][]string `yaml:"static" json:"static"`

	// PrincipalHeader overrides the header the principal is read from
	// (static mode).
	PrincipalHeader string `yaml:"principalHeader" json:"principalHeader"`

	// JWT configures token verification (jwt mode).
	JWT authz.JWTConfig `yaml:"jwt" json:"jwt"`
}

// RouteConfig is one registered service: a method/path/role tuple plus
// the static response the route serves.
type RouteConfig struct {
	// Name identifies the route in logs and must be unique.
	Name string `yaml:"name" json:"name"`

	// Method is the HTTP method, or "*" for any.
	Method string `yaml:"method" json:"method"`

	// Path is the absolute path pattern; {name}, :name and @name
	// placeholders are interchangeable.
	Path string `yaml:"path" json:"path"`

	// Role guards the route; empty means public.
	Role string `yaml:"role" json:"role"`

	// Response is the static response served by this route.
	Response DirectResponse `yaml:"response" json:"response"`
}

// DirectResponse is a statically configured response body.
type DirectResponse struct {
	// Status defaults to 200.
	Status int `yaml:"status" json:"status"`

	// Body is the literal response body. Path parameters can be
	// referenced as {name} and are substituted per request.
	Body string `yaml:"body" json:"body"`

	// Headers are set on the response in order.
	Headers []HeaderValue `yaml:"headers" json:"headers"`
}

// Default returns a configuration with defaults applied.
func Default() *Config {
	return &Config{
		Listen:        ":8080",
		MetricsListen: ":9090",
		Logging:       observability.DefaultLogConfig(),
		Tracing:       observability.TracerConfig{ServiceName: "avrouter"},
	}
}

// withDefaults fills unset scalar fields from Default.
func (c *Config) withDefaults() *Config {
	defaults := Default()
	if c.Listen == "" {
		c.Listen = defaults.Listen
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	if c.Logging.Output == "" {
		c.Logging.Output = defaults.Logging.Output
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = defaults.Tracing.ServiceName
	}
	return c
}
