// Package dispatch implements the REST request routing and dispatch
// engine.
//
// The engine resolves a generic inbound request (method, path, headers,
// parsed parameters) to exactly one registered service handler, binds
// path parameters onto the request, enforces per-route authorization,
// invokes the handler inside a failure boundary, and converts the result
// into a well-formed response.
//
// # Features
//
//   - Segment-based path matching with three interchangeable placeholder
//     syntaxes: {name}, :name and @name
//   - Registration-time conflict detection: overlapping patterns for the
//     same method are rejected instead of being ranked at dispatch time
//   - Wildcard method registration matching any request method
//   - OPTIONS preflight short-circuit for every registered path
//   - Copy-on-write route table: lock-free matching under concurrent
//     registration
//   - Default response headers merged beneath handler-set headers
//
// # Usage
//
// Create a dispatcher, register services, dispatch requests:
//
//	d := dispatch.New(dispatch.WithDefaultHeader("Server", "avrouter"))
//	err := d.RegisterService(handler, dispatch.RouteConfig{
//	    Method: dispatch.MethodGet,
//	    Path:   "/person/{id}",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	resp := d.Dispatch(req)
//
// Dispatch is total: it never panics and always returns a response. All
// failures surface as status codes (404, 405, 401, 400, 500) with empty
// bodies.
package dispatch
