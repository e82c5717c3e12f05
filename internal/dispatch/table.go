package dispatch

import (
	"sync"
	"sync/atomic"
)

// Table is the append-only route collection. Writers are serialized and
// publish copy-on-write snapshots; matching loads the current snapshot
// without taking any lock, so in-flight dispatches never contend with
// registration.
type Table struct {
	mu     sync.Mutex
	routes atomic.Pointer[[]*Route]
}

// NewTable creates an empty route table.
func NewTable() *Table {
	t := &Table{}
	empty := make([]*Route, 0)
	t.routes.Store(&empty)
	return t
}

// Register appends a route. It fails with a RouteConflictError when an
// already registered route with a colliding method has a pattern that
// overlaps the new one; ambiguity is rejected here instead of being
// ranked at dispatch time.
func (t *Table) Register(rt *Route) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := *t.routes.Load()
	for _, existing := range current {
		if existing.Method == rt.Method && overlaps(existing.segments, rt.segments) {
			return &RouteConflictError{
				Method:   rt.Method,
				Pattern:  rt.Pattern,
				Existing: existing.Pattern,
			}
		}
	}

	next := make([]*Route, len(current), len(current)+1)
	copy(next, current)
	next = append(next, rt)
	t.routes.Store(&next)
	return nil
}

// Match collects every route whose pattern matches the request
// segments, keyed by method. Wildcard routes are keyed under MethodAny.
// A nil result means the path is unknown.
func (t *Table) Match(segments []string) map[Method]*Route {
	var result map[Method]*Route
	for _, rt := range *t.routes.Load() {
		if rt.Matches(segments) {
			if result == nil {
				result = make(map[Method]*Route)
			}
			result[rt.Method] = rt
		}
	}
	return result
}

// Routes returns the current snapshot of registered routes.
func (t *Table) Routes() []*Route {
	return *t.routes.Load()
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(*t.routes.Load())
}
