package broadcast

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	clients   prometheus.Gauge
	broadcast *prometheus.CounterVec
	dropped   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "newsfeed",
			Name:      "ws_clients",
			Help:      "Number of connected websocket clients.",
		}),
		broadcast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "newsfeed",
			Name:      "events_broadcast_total",
			Help:      "Events fanned out to clients, by event type.",
		}, []string{"type"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "newsfeed",
			Name:      "events_dropped_total",
			Help:      "Events dropped because the hub queue or a client buffer was full.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.clients, m.broadcast, m.dropped)
	}

	return m
}
