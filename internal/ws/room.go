package ws

// Participant is one live connection's membership record within a room.
// Video and audio start enabled; screen share starts off.
type Participant struct {
	ConnID        string
	DisplayName   string
	VideoEnabled  bool
	AudioEnabled  bool
	ScreenSharing bool
}

func newParticipant(connID, displayName string) *Participant {
	return &Participant{
		ConnID:       connID,
		DisplayName:  displayName,
		VideoEnabled: true,
		AudioEnabled: true,
	}
}

func (p *Participant) presence() PresenceState {
	return PresenceState{
		DisplayName:   p.DisplayName,
		VideoEnabled:  p.VideoEnabled,
		AudioEnabled:  p.AudioEnabled,
		ScreenSharing: p.ScreenSharing,
	}
}

// Room is a named set of participants. Count mirrors len(Participants) so the
// disconnect path never re-counts the map; add/remove keep the two in step.
// Rooms are not self-locking: all access goes through the Router's mutex.
type Room struct {
	ID           string
	Participants map[string]*Participant
	Count        int
}

func newRoom(id string) *Room {
	return &Room{ID: id, Participants: map[string]*Participant{}}
}

// add inserts or replaces the participant for p.ConnID. A replacement (same
// connection re-joining) does not bump the count.
func (r *Room) add(p *Participant) {
	if _, ok := r.Participants[p.ConnID]; !ok {
		r.Count++
	}
	r.Participants[p.ConnID] = p
}

// remove deletes the entry for connID and reports whether it was present.
func (r *Room) remove(connID string) bool {
	if _, ok := r.Participants[connID]; !ok {
		return false
	}
	delete(r.Participants, connID)
	r.Count--
	return true
}

// snapshotExcept copies every participant's presence except connID's.
func (r *Room) snapshotExcept(connID string) map[string]PresenceState {
	out := make(map[string]PresenceState, len(r.Participants))
	for id, p := range r.Participants {
		if id == connID {
			continue
		}
		out[id] = p.presence()
	}
	return out
}

// peersExcept lists member connection IDs, skipping connID ("" skips none).
func (r *Room) peersExcept(connID string) []string {
	out := make([]string, 0, len(r.Participants))
	for id := range r.Participants {
		if id == connID {
			continue
		}
		out = append(out, id)
	}
	return out
}
