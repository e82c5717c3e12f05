package authz

import (
	"github.com/vyrodovalexey/avrouter/internal/dispatch"
	"github.com/vyrodovalexey/avrouter/internal/observability"
)

// DefaultPrincipalHeader is the header the static authorizer reads the
// caller identity from. The transport in front of the router is
// expected to have authenticated the caller and set it.
const DefaultPrincipalHeader = "X-Auth-Principal"

// StaticAuthorizer grants roles to principals from a fixed mapping.
type StaticAuthorizer struct {
	principalHeader string
	roles           map[string]map[string]bool
	logger          observability.Logger
}

// StaticOption is a functional option for the static authorizer.
type StaticOption func(*StaticAuthorizer)

// WithPrincipalHeader overrides the header the principal is read from.
func WithPrincipalHeader(name string) StaticOption {
	return func(a *StaticAuthorizer) {
		a.principalHeader = name
	}
}

// WithStaticLogger sets the logger.
func WithStaticLogger(logger observability.Logger) StaticOption {
	return func(a *StaticAuthorizer) {
		a.logger = logger
	}
}

// NewStaticAuthorizer creates an authorizer from a principal-to-roles
// mapping.
func NewStaticAuthorizer(roles map[string][]string, opts ...StaticOption) *StaticAuthorizer {
	a := &StaticAuthorizer{
		principalHeader: DefaultPrincipalHeader,
		roles:           make(map[string]map[string]bool, len(roles)),
		logger:          observability.NopLogger(),
	}
	for principal, granted := range roles {
		set := make(map[string]bool, len(granted))
		for _, role := range granted {
			set[role] = true
		}
		a.roles[principal] = set
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authorize implements dispatch.Authorizer.
func (a *StaticAuthorizer) Authorize(req *dispatch.Request, requiredRole string) bool {
	principal := req.Header(a.principalHeader)
	if principal == "" {
		a.logger.Debug("no principal on request",
			observability.String("header", a.principalHeader))
		return false
	}

	if a.roles[principal][requiredRole] {
		return true
	}

	a.logger.Debug("principal lacks role",
		observability.String("principal", principal),
		observability.String("role", requiredRole),
	)
	return false
}
