package ws

// Registry maps room IDs to live rooms. A room is present iff it has at least
// one participant; the Router creates it on first join and removes it when
// the last participant leaves. Not self-locking (owned by the Router).
type Registry struct {
	rooms map[string]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: map[string]*Room{}}
}

// Ensure returns the room for id, creating an empty one if needed.
func (g *Registry) Ensure(id string) *Room {
	rm := g.rooms[id]
	if rm == nil {
		rm = newRoom(id)
		g.rooms[id] = rm
	}
	return rm
}

func (g *Registry) Get(id string) (*Room, bool) {
	rm, ok := g.rooms[id]
	return rm, ok
}

func (g *Registry) Remove(id string) {
	delete(g.rooms, id)
}

func (g *Registry) Len() int { return len(g.rooms) }

// ConnIndex is the reverse map from connection ID to the room it occupies,
// so disconnect and toggle handling never scan the registry. Invariant: an
// entry exists iff the connection is a participant of the mapped room.
type ConnIndex struct {
	byConn map[string]string
}

func NewConnIndex() *ConnIndex {
	return &ConnIndex{byConn: map[string]string{}}
}

func (ix *ConnIndex) Bind(connID, roomID string) {
	ix.byConn[connID] = roomID
}

func (ix *ConnIndex) Resolve(connID string) (string, bool) {
	roomID, ok := ix.byConn[connID]
	return roomID, ok
}

func (ix *ConnIndex) Unbind(connID string) {
	delete(ix.byConn, connID)
}
