package dispatch

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "router"
	subsystem = "dispatch"
)

// Failure kind labels for the failures counter.
const (
	failurePathNotFound      = "path_not_found"
	failureMethodNotAllowed  = "method_not_allowed"
	failureUnauthorized      = "unauthorized"
	failureInvalidParameters = "invalid_parameters"
	failureInternal          = "internal"
)

// Metrics holds the dispatch-level Prometheus metrics.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	failuresTotal   *prometheus.CounterVec
}

var (
	metricsInstance *Metrics
	metricsOnce     sync.Once
)

// GetMetrics returns the singleton dispatch metrics instance, registered
// on the default registry via promauto.
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			requestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespace,
					Subsystem: subsystem,
					Name:      "requests_total",
					Help:      "Total number of dispatched requests",
				},
				[]string{"method", "status"},
			),
			requestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: namespace,
					Subsystem: subsystem,
					Name:      "request_duration_seconds",
					Help:      "Dispatch duration including handler invocation",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"method"},
			),
			failuresTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: namespace,
					Subsystem: subsystem,
					Name:      "failures_total",
					Help:      "Total number of failed dispatches by failure kind",
				},
				[]string{"kind"},
			),
		}
	})
	return metricsInstance
}
