package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive counts open websocket connections on this instance.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signaling_connections_active",
		Help: "Open websocket connections.",
	})

	// RoomsActive counts rooms with at least one participant.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signaling_rooms_active",
		Help: "Rooms with at least one participant.",
	})

	// ParticipantsActive counts participants across all rooms.
	ParticipantsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signaling_participants_active",
		Help: "Participants across all rooms.",
	})

	// EventsHandled counts inbound events by kind.
	EventsHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signaling_events_handled_total",
		Help: "Inbound signaling events by kind.",
	}, []string{"kind"})

	// EventsDropped counts events dropped best-effort (unknown target,
	// malformed frame, no room binding).
	EventsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signaling_events_dropped_total",
		Help: "Events dropped best-effort, by reason.",
	}, []string{"reason"})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
