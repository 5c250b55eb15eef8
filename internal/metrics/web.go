package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(pageRenders) }

var pageRenders = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "carta_page_renders_total",
		Help: "Menu page renders by language.",
	},
	[]string{"lang"},
)

// IncPageRender counts one rendered menu page.
func IncPageRender(lang string) {
	pageRenders.WithLabelValues(norm(lang)).Inc()
}
