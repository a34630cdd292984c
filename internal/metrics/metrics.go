package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "eventcal"

// Registry is the application registry served on /metrics. It is kept separate from the
// default registry so tests can inspect it without global collisions.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// EventMutations counts successful create/update/delete operations on events.
var EventMutations = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_mutations_total",
		Help:      "Total number of calendar events created, updated or deleted",
	},
	[]string{"action"},
)
