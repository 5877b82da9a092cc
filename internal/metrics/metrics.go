package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	accountOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "galpe",
			Subsystem: "accounts",
			Name:      "operations_total",
			Help:      "Total number of account operations by outcome.",
		},
		[]string{"operation", "reason"},
	)

	storeSaveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "galpe",
			Subsystem: "store",
			Name:      "save_duration_seconds",
			Help:      "Duration of record store saves.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"backend", "success"},
	)

	marketRefreshes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "galpe",
			Subsystem: "market",
			Name:      "snapshot_refreshes_total",
			Help:      "Total number of market snapshot refreshes.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		accountOperations,
		storeSaveDuration,
		marketRefreshes,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordAccountOperation counts one account operation outcome.
func RecordAccountOperation(operation, reason string) {
	accountOperations.WithLabelValues(operation, reason).Inc()
}

// RecordStoreSave observes the duration of one SaveAll call.
func RecordStoreSave(backend string, success bool, d time.Duration) {
	storeSaveDuration.WithLabelValues(backend, boolLabel(success)).Observe(d.Seconds())
}

// RecordMarketRefresh counts one snapshot refresh.
func RecordMarketRefresh(success bool) {
	marketRefreshes.WithLabelValues(boolLabel(success)).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
