package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(updatesTotal) }

var updatesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "carta_updates_total",
		Help: "Telegram updates handled, by kind (command/callback/text) and outcome.",
	},
	[]string{"kind", "outcome"},
)

// IncUpdate counts one handled Telegram update.
func IncUpdate(kind, outcome string) {
	updatesTotal.WithLabelValues(norm(kind), norm(outcome)).Inc()
}
