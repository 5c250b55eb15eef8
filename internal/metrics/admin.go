package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(mutationsTotal) }

var mutationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "carta_mutations_total",
		Help: "Catalog mutations requested from the admin bot, by action and outcome.",
	},
	[]string{"action", "outcome"},
)

// IncMutation counts one catalog write attempt.
// outcome is one of ok, invalid, not_found, conflict, fail.
func IncMutation(action, outcome string) {
	mutationsTotal.WithLabelValues(norm(action), norm(outcome)).Inc()
}
