package dispatch

// Handler processes a bound request and produces a response. Returning
// an error signals failure; errors marked with ErrInvalidParameters map
// to 400, everything else to 500.
type Handler func(*Request) (*Response, error)

// Authorizer decides whether a bound request may reach a route
// requiring the given role. The dispatcher never consults it for
// routes with an empty role.
type Authorizer interface {
	Authorize(req *Request, requiredRole string) bool
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(req *Request, requiredRole string) bool

// Authorize implements Authorizer.
func (f AuthorizerFunc) Authorize(req *Request, requiredRole string) bool {
	return f(req, requiredRole)
}

// RouteConfig describes one service registration.
type RouteConfig struct {
	// Method is the method the route answers, or MethodAny for every
	// method.
	Method Method

	// Path is the absolute path pattern, e.g. "/person/{id}".
	Path string

	// AuthorizedRole is the role a request must satisfy. Empty means
	// public: the route is reachable without any authorization check.
	AuthorizedRole string
}

// Route is one registered service: immutable after registration.
type Route struct {
	// Method is the method the route answers; MethodAny matches all.
	Method Method

	// Pattern is the path pattern as registered.
	Pattern string

	// Role is the required authorization role, empty for public routes.
	Role string

	// Handler is the application-supplied logic.
	Handler Handler

	segments []segment
}

// NewRoute parses the pattern and builds an immutable route definition.
func NewRoute(cfg RouteConfig, handler Handler) (*Route, error) {
	method, err := ParseMethod(string(cfg.Method))
	if err != nil {
		return nil, err
	}

	segments, err := parsePattern(cfg.Path)
	if err != nil {
		return nil, err
	}

	return &Route{
		Method:   method,
		Pattern:  cfg.Path,
		Role:     cfg.AuthorizedRole,
		Handler:  handler,
		segments: segments,
	}, nil
}

// Matches reports whether the route's pattern matches the request
// segments.
func (rt *Route) Matches(segments []string) bool {
	return matches(rt.segments, segments)
}

// bind walks the pattern and the request segments in lockstep and
// records every placeholder value, decoded, under its name and its
// segment index. Called exactly once per dispatched request, before
// authorization and invocation.
func (rt *Route) bind(req *Request) {
	for i, seg := range rt.segments {
		if seg.isParam {
			req.setPathParam(seg.param, i, decodeSegment(req.Segments[i]))
		}
	}
	req.bound = true
}
