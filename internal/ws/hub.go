package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"log/slog"

	"github.com/google/uuid"

	"github.com/priyanshu442004/WatchParty/pkg/metrics"
)

// Hub owns the live connections on this instance. It accepts websockets,
// assigns connection IDs, feeds decoded events to the Router, and is the
// Router's Emitter: local delivery goes over each connection's write loop,
// and the redis bus replicates events to instances holding other members.
type Hub struct {
	log    *slog.Logger
	bus    *RedisBus // nil disables cross-instance fanout
	router *Router

	ctx context.Context

	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewHub sets up the hub and its router. ctx bounds bus publishes for the
// hub's lifetime.
func NewHub(ctx context.Context, logger *slog.Logger, bus *RedisBus) *Hub {
	h := &Hub{
		log:   logger,
		bus:   bus,
		ctx:   ctx,
		conns: map[string]*Conn{},
	}
	h.router = NewRouter(logger, h)
	return h
}

// Router exposes the event router for collaborators that need live presence
// (the room directory API).
func (h *Hub) Router() *Router { return h.router }

// Run delivers replicated events from other instances to local connections.
func (h *Hub) Run(ctx context.Context) {
	if h.bus == nil {
		<-ctx.Done()
		return
	}
	go h.bus.Subscribe(ctx, func(ev BusEvent) {
		switch {
		case ev.TargetConn != "":
			h.deliver(ev.TargetConn, ev.Payload)
		case ev.RoomID != "":
			for _, id := range h.router.Peers(ev.RoomID) {
				h.deliver(id, ev.Payload)
			}
		}
	})
	<-ctx.Done()
}

// ServeWS handles a new /ws connection for its whole lifetime.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sock, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "err", err)
		return
	}

	c := NewConn(uuid.NewString(), sock)
	h.register(c)
	go c.WriteLoop(ctx)

	// Tell the client its assigned ID; peers will address it by this.
	h.ToConn(c.ID(), Connected{Type: KindConnected, ConnectionID: c.ID()})
	h.log.Debug("ws.connect", "conn", c.ID())

	for {
		frame, ok := c.Read(ctx)
		if !ok {
			break
		}
		ev, err := DecodeInbound(frame)
		if err != nil {
			metrics.EventsDropped.WithLabelValues("malformed").Inc()
			h.log.Debug("ws.frame.drop", "conn", c.ID(), "err", err)
			continue
		}
		h.router.Handle(c.ID(), ev)
	}

	h.router.Disconnect(c.ID())
	h.unregister(c)
	_ = c.Close()
	h.log.Debug("ws.disconnect", "conn", c.ID())
}

// ToConn implements Emitter. A target that is not local is forwarded over
// the bus best-effort; the report still says "not here".
func (h *Hub) ToConn(connID string, ev Outbound) bool {
	b, err := json.Marshal(ev)
	if err != nil {
		return false
	}
	if h.deliver(connID, b) {
		return true
	}
	if h.bus != nil {
		_ = h.bus.PublishConn(h.ctx, connID, b)
	}
	return false
}

// ToRoom implements Emitter: local members get the frame directly, and the
// bus carries it to instances holding the room's other members.
func (h *Hub) ToRoom(roomID string, connIDs []string, ev Outbound) {
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	for _, id := range connIDs {
		h.deliver(id, b)
	}
	if h.bus != nil {
		_ = h.bus.PublishRoom(h.ctx, roomID, b)
	}
}

func (h *Hub) deliver(connID string, frame []byte) bool {
	h.mu.RLock()
	c := h.conns[connID]
	h.mu.RUnlock()
	if c == nil {
		return false
	}
	c.enqueue(frame)
	return true
}

func (h *Hub) register(c *Conn) {
	h.mu.Lock()
	h.conns[c.ID()] = c
	h.mu.Unlock()
	metrics.ConnectionsActive.Inc()
}

func (h *Hub) unregister(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c.ID())
	h.mu.Unlock()
	metrics.ConnectionsActive.Dec()
}
