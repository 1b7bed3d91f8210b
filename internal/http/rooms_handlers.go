package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/priyanshu442004/WatchParty/internal/store"
	"github.com/priyanshu442004/WatchParty/internal/ws"
)

// Directory is the durable room directory (postgres in production).
type Directory interface {
	CreateRoom(ctx context.Context, name string) (store.Room, error)
	ListRooms(ctx context.Context, limit, offset int) ([]store.Room, error)
	GetRoom(ctx context.Context, id string) (store.Room, error)
}

// Presence reports the live signaling members of a room.
type Presence interface {
	Participants(roomID string) []ws.ParticipantInfo
}

type RoomsAPI struct {
	Dir  Directory
	Live Presence
}

type createRoomReq struct {
	Name string `json:"name"`
}

type roomResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type roomDetailResponse struct {
	Room             roomResponse         `json:"room"`
	Participants     []ws.ParticipantInfo `json:"participants"`
	ParticipantCount int                  `json:"participantCount"`
}

// Create registers a new room in the directory.
func (a *RoomsAPI) Create(w http.ResponseWriter, r *http.Request) {
	var req createRoomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	rm, err := a.Dir.CreateRoom(r.Context(), req.Name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, roomResponse{ID: rm.ID, Name: rm.Name, CreatedAt: rm.CreatedAt})
}

// List returns up to 100 rooms
func (a *RoomsAPI) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := a.Dir.ListRooms(r.Context(), 100, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := make([]roomResponse, 0, len(rooms))
	for _, rm := range rooms {
		resp = append(resp, roomResponse{ID: rm.ID, Name: rm.Name, CreatedAt: rm.CreatedAt})
	}
	writeJSON(w, resp)
}

// Get returns a room's directory entry merged with its live participants.
// Presence comes from the signaling layer and may be empty even for a room
// that exists in the directory.
func (a *RoomsAPI) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "id required", http.StatusBadRequest)
		return
	}

	rm, err := a.Dir.GetRoom(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRoomNotFound) {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	live := a.Live.Participants(id)
	if live == nil {
		live = []ws.ParticipantInfo{}
	}
	writeJSON(w, roomDetailResponse{
		Room:             roomResponse{ID: rm.ID, Name: rm.Name, CreatedAt: rm.CreatedAt},
		Participants:     live,
		ParticipantCount: len(live),
	})
}

// send JSON with proper headers
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
