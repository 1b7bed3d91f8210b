package httpx

import (
	"log/slog"
	"net/http"

	"github.com/priyanshu442004/WatchParty/internal/app"
	"github.com/priyanshu442004/WatchParty/internal/store"
	"github.com/priyanshu442004/WatchParty/internal/ws"
	"github.com/priyanshu442004/WatchParty/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres) http.Handler {
	mw := NewMiddleware(cfg)
	api := &RoomsAPI{Dir: db, Live: hub.Router()}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, "db unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
	}))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket signaling endpoint
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Room directory endpoints
	mux.Handle("/api/rooms", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			api.Create(w, r)
			return
		}
		if r.Method == http.MethodGet {
			api.List(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	mux.Handle("/api/rooms/{id}", http.HandlerFunc(api.Get))

	// CORS + rate limit applied globally
	return mw.Wrap(mux)
}
