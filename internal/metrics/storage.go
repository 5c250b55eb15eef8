package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(storageSeconds, dbPoolStats) }

var (
	storageSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "carta_storage_seconds",
			Help:    "Latency of catalog storage calls.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"backend", "op"},
	)

	dbPoolStats = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "carta_db_pool_connections",
			Help: "Current state of the database connection pool.",
		},
		[]string{"state"}, // 'open', 'idle', 'in_use'
	)
)

// ObserveStorage records the time elapsed since start for backend/op.
func ObserveStorage(backend, op string, start time.Time) {
	storageSeconds.WithLabelValues(norm(backend), norm(op)).Observe(time.Since(start).Seconds())
}

// SetDBPoolStats publishes connection pool counters.
func SetDBPoolStats(open, idle, inUse int) {
	dbPoolStats.WithLabelValues("open").Set(float64(open))
	dbPoolStats.WithLabelValues("idle").Set(float64(idle))
	dbPoolStats.WithLabelValues("in_use").Set(float64(inUse))
}
