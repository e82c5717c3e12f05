// Package health provides the liveness and readiness probe endpoints
// served next to the metrics endpoint.
package health

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Status is a probe result.
type Status string

const (
	// StatusHealthy indicates the router is serving.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the router cannot serve.
	StatusUnhealthy Status = "unhealthy"
	// StatusDraining indicates shutdown has started.
	StatusDraining Status = "draining"
)

// Response is the JSON body of every probe.
type Response struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Routes    int       `json:"routes"`
	Timestamp time.Time `json:"timestamp"`
}

// Checker tracks whether the router holds a valid route table and
// whether it is draining. Both flags are updated from the reload and
// shutdown paths, so access is atomic.
type Checker struct {
	version   string
	startTime time.Time
	routes    atomic.Int64
	ready     atomic.Bool
	draining  atomic.Bool
}

// NewChecker creates a checker; the router is not ready until
// SetRoutes is called.
func NewChecker(version string) *Checker {
	return &Checker{
		version:   version,
		startTime: time.Now(),
	}
}

// SetRoutes records a successfully loaded route table and marks the
// router ready.
func (c *Checker) SetRoutes(count int) {
	c.routes.Store(int64(count))
	c.ready.Store(true)
}

// SetDraining marks shutdown as started; readiness fails from here on
// so load balancers stop sending new requests during the drain.
func (c *Checker) SetDraining() {
	c.draining.Store(true)
}

// status returns the current readiness status.
func (c *Checker) status() Status {
	switch {
	case c.draining.Load():
		return StatusDraining
	case !c.ready.Load():
		return StatusUnhealthy
	default:
		return StatusHealthy
	}
}

// response builds the probe body.
func (c *Checker) response(status Status) Response {
	return Response{
		Status:    status,
		Version:   c.version,
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Routes:    int(c.routes.Load()),
		Timestamp: time.Now(),
	}
}

// LivenessHandler answers 200 as long as the process runs.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, c.response(StatusHealthy))
	}
}

// ReadinessHandler answers 200 once a valid route table is loaded and
// 503 before that or while draining.
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := c.status()
		code := http.StatusOK
		if status != StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, c.response(status))
	}
}

func writeJSON(w http.ResponseWriter, code int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
