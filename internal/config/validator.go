package config

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/vyrodovalexey/avrouter/internal/dispatch"
	"github.com/vyrodovalexey/avrouter/internal/util"
)

// Validate checks the configuration for errors that would otherwise
// surface as fatal registration failures at startup.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return util.NewConfigError("listen", "must not be empty")
	}

	switch c.Authorization.Mode {
	case AuthorizationModeNone, AuthorizationModeStatic:
	case AuthorizationModeJWT:
		if c.Authorization.JWT.Secret == "" && c.Authorization.JWT.PublicKeyFile == "" {
			return util.NewConfigError("authorization.jwt",
				"either secret or publicKeyFile must be set")
		}
	default:
		return util.NewConfigError("authorization.mode",
			fmt.Sprintf("unknown mode %q", c.Authorization.Mode))
	}

	for i, header := range c.DefaultHeaders {
		if header.Name == "" {
			return util.NewConfigError(
				fmt.Sprintf("defaultHeaders[%d].name", i), "must not be empty")
		}
	}

	names := make(map[string]bool, len(c.Routes))
	for i, route := range c.Routes {
		field := func(suffix string) string {
			return fmt.Sprintf("routes[%d].%s", i, suffix)
		}

		if route.Name == "" {
			return util.NewConfigError(field("name"), "must not be empty")
		}
		if names[route.Name] {
			return util.NewConfigError(field("name"),
				fmt.Sprintf("duplicate route name %q", route.Name))
		}
		names[route.Name] = true

		if _, err := dispatch.ParseMethod(route.Method); err != nil {
			return util.NewConfigErrorWithCause(field("method"), "invalid method", err)
		}
		if !strings.HasPrefix(route.Path, "/") {
			return util.NewConfigError(field("path"), "must be absolute")
		}
		if route.Response.Status != 0 &&
			(route.Response.Status < http.StatusContinue || route.Response.Status > 599) {
			return util.NewConfigError(field("response.status"),
				fmt.Sprintf("invalid status code %d", route.Response.Status))
		}
	}
	return nil
}
