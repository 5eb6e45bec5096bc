package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "guesthouse",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	reconcileRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guesthouse",
			Name:      "reconcile_runs_total",
			Help:      "Checkout reconciliation passes executed.",
		},
	)

	reconciledCheckouts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guesthouse",
			Name:      "reconciled_checkouts_total",
			Help:      "Bookings auto-checked-out by the reconciler.",
		},
	)

	reconcileErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "guesthouse",
			Name:      "reconcile_errors_total",
			Help:      "Per-booking failures during reconciliation.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, reconcileRuns, reconciledCheckouts, reconcileErrors)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncReconcileRun counts a completed reconciliation pass.
func IncReconcileRun() {
	reconcileRuns.Inc()
}

// AddReconciledCheckouts counts bookings flipped by a pass.
func AddReconciledCheckouts(n int) {
	reconciledCheckouts.Add(float64(n))
}

// IncReconcileError counts a single booking that failed to reconcile.
func IncReconcileError() {
	reconcileErrors.Inc()
}
