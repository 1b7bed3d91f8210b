package ws

import (
	"log/slog"
	"sync"

	"github.com/priyanshu442004/WatchParty/pkg/metrics"
)

// Emitter delivers outbound events. Implementations must not block for long:
// the Router calls it outside its lock, but from the handling goroutine.
type Emitter interface {
	// ToConn best-effort delivers ev to one connection and reports whether
	// that connection is live on this instance.
	ToConn(connID string, ev Outbound) bool

	// ToRoom delivers ev to each listed connection. roomID lets the emitter
	// replicate the event to peer instances carrying members of the room.
	ToRoom(roomID string, connIDs []string, ev Outbound)
}

// Router owns the room registry and connection index and applies the
// signaling semantics: join/leave lifecycle, targeted relays, and presence
// broadcasts. One RWMutex covers all membership state; critical sections are
// a handful of map operations and every emit happens after unlock, so slow
// deliveries never stall joins or leaves.
type Router struct {
	log  *slog.Logger
	emit Emitter

	mu    sync.RWMutex
	rooms *Registry
	index *ConnIndex
}

func NewRouter(log *slog.Logger, emit Emitter) *Router {
	return &Router{
		log:   log,
		emit:  emit,
		rooms: NewRegistry(),
		index: NewConnIndex(),
	}
}

// Handle applies one inbound event from connID. The switch is exhaustive
// over the closed Inbound set; DecodeInbound never produces anything else.
func (r *Router) Handle(connID string, ev Inbound) {
	switch ev := ev.(type) {
	case Join:
		metrics.EventsHandled.WithLabelValues(string(KindJoin)).Inc()
		r.join(connID, ev.RoomID, ev.DisplayName)
	case Offer:
		metrics.EventsHandled.WithLabelValues(string(KindOffer)).Inc()
		r.relay(connID, ev.TargetID, Signal{Type: KindOffer, FromConnectionID: connID, Payload: ev.Payload})
	case Answer:
		metrics.EventsHandled.WithLabelValues(string(KindAnswer)).Inc()
		r.relay(connID, ev.TargetID, Signal{Type: KindAnswer, FromConnectionID: connID, Payload: ev.Payload})
	case ICECandidate:
		metrics.EventsHandled.WithLabelValues(string(KindICECandidate)).Inc()
		r.relay(connID, ev.TargetID, Signal{Type: KindICECandidate, FromConnectionID: connID, Payload: ev.Payload})
	case ToggleVideo:
		metrics.EventsHandled.WithLabelValues(string(KindToggleVideo)).Inc()
		r.toggle(connID, KindPeerToggledVideo, ev.Enabled)
	case ToggleAudio:
		metrics.EventsHandled.WithLabelValues(string(KindToggleAudio)).Inc()
		r.toggle(connID, KindPeerToggledAudio, ev.Enabled)
	case ScreenShareStart:
		metrics.EventsHandled.WithLabelValues(string(KindScreenShareStart)).Inc()
		r.screenShare(connID, true)
	case ScreenShareStop:
		metrics.EventsHandled.WithLabelValues(string(KindScreenShareStop)).Inc()
		r.screenShare(connID, false)
	}
}

// join adds connID to roomID, creating the room on first join. A re-join
// with the same room replaces the participant record in place; a join while
// bound to a different room leaves that room first, so the index never
// points at stale membership.
func (r *Router) join(connID, roomID, displayName string) {
	r.mu.Lock()
	var (
		prevRoomID string
		prevPeers  []string
	)
	if prev, ok := r.index.Resolve(connID); ok && prev != roomID {
		if rm, ok := r.rooms.Get(prev); ok && rm.remove(connID) {
			prevRoomID = prev
			prevPeers = rm.peersExcept("")
			if rm.Count == 0 {
				r.rooms.Remove(prev)
			}
		}
	}

	rm := r.rooms.Ensure(roomID)
	rm.add(newParticipant(connID, displayName))
	r.index.Bind(connID, roomID)

	snapshot := rm.snapshotExcept(connID)
	peers := rm.peersExcept(connID)
	r.setGauges()
	r.mu.Unlock()

	if prevRoomID != "" {
		r.emit.ToRoom(prevRoomID, prevPeers, PeerLeft{Type: KindPeerLeft, ConnectionID: connID})
	}

	r.emit.ToConn(connID, Joined{Type: KindJoined, RoomID: roomID, Participants: snapshot})
	r.emit.ToRoom(roomID, peers, PeerJoined{Type: KindPeerJoined, ConnectionID: connID, DisplayName: displayName})
	r.log.Debug("room.join", "conn", connID, "room", roomID, "peers", len(peers))
}

// Disconnect removes connID from its room, notifies the remaining members,
// and evicts the room when it empties. Safe to call for connections that
// never joined.
func (r *Router) Disconnect(connID string) {
	r.mu.Lock()
	roomID, ok := r.index.Resolve(connID)
	if !ok {
		r.mu.Unlock()
		return
	}

	var peers []string
	if rm, found := r.rooms.Get(roomID); found && rm.remove(connID) {
		peers = rm.peersExcept("")
		if rm.Count == 0 {
			r.rooms.Remove(roomID)
		}
	}
	r.index.Unbind(connID)
	r.setGauges()
	r.mu.Unlock()

	r.emit.ToRoom(roomID, peers, PeerLeft{Type: KindPeerLeft, ConnectionID: connID})
	r.log.Debug("room.leave", "conn", connID, "room", roomID)
}

// relay forwards a handshake blob to one target connection. No membership
// check: the sender learned the target ID from a joined/peer-joined event.
// A dead target is dropped silently; the sender has no way to probe liveness
// ahead of time, so there is deliberately no feedback channel.
func (r *Router) relay(fromID, targetID string, ev Signal) {
	if !r.emit.ToConn(targetID, ev) {
		metrics.EventsDropped.WithLabelValues("unknown-target").Inc()
		r.log.Debug("relay.drop", "kind", ev.Type, "from", fromID, "target", targetID)
	}
}

// toggle flips the sender's video or audio flag and tells the rest of the
// room. A toggle from a connection with no room binding is ignored.
func (r *Router) toggle(connID string, kind Kind, enabled bool) {
	roomID, peers, ok := r.updatePresence(connID, func(p *Participant) {
		if kind == KindPeerToggledVideo {
			p.VideoEnabled = enabled
		} else {
			p.AudioEnabled = enabled
		}
	})
	if !ok {
		metrics.EventsDropped.WithLabelValues("no-room").Inc()
		return
	}
	r.emit.ToRoom(roomID, peers, PeerToggled{Type: kind, ConnectionID: connID, Enabled: enabled})
}

func (r *Router) screenShare(connID string, active bool) {
	roomID, peers, ok := r.updatePresence(connID, func(p *Participant) {
		p.ScreenSharing = active
	})
	if !ok {
		metrics.EventsDropped.WithLabelValues("no-room").Inc()
		return
	}
	kind := KindPeerScreenShareStop
	if active {
		kind = KindPeerScreenShareStart
	}
	r.emit.ToRoom(roomID, peers, PeerScreenShare{Type: kind, ConnectionID: connID})
}

// updatePresence mutates connID's participant record under the lock and
// returns the room and the other members to notify.
func (r *Router) updatePresence(connID string, mutate func(*Participant)) (roomID string, peers []string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	roomID, ok = r.index.Resolve(connID)
	if !ok {
		return "", nil, false
	}
	rm, found := r.rooms.Get(roomID)
	if !found {
		return "", nil, false
	}
	p, present := rm.Participants[connID]
	if !present {
		return "", nil, false
	}
	mutate(p)
	return roomID, rm.peersExcept(connID), true
}

// ParticipantInfo is a participant's presence plus its connection ID, as
// exposed to the room directory API.
type ParticipantInfo struct {
	ConnectionID string `json:"connectionId"`
	PresenceState
}

// Participants snapshots the live members of roomID; nil if the room has no
// signaling presence on this instance.
func (r *Router) Participants(roomID string) []ParticipantInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms.Get(roomID)
	if !ok {
		return nil
	}
	out := make([]ParticipantInfo, 0, len(rm.Participants))
	for id, p := range rm.Participants {
		out = append(out, ParticipantInfo{ConnectionID: id, PresenceState: p.presence()})
	}
	return out
}

// Peers lists the local members of roomID, used when replicated room events
// arrive from another instance.
func (r *Router) Peers(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms.Get(roomID)
	if !ok {
		return nil
	}
	return rm.peersExcept("")
}

// setGauges is called with the lock held after every membership mutation.
func (r *Router) setGauges() {
	metrics.RoomsActive.Set(float64(r.rooms.Len()))
	total := 0
	for _, rm := range r.rooms.rooms {
		total += rm.Count
	}
	metrics.ParticipantsActive.Set(float64(total))
}
