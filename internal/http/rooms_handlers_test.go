package httpx

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/priyanshu442004/WatchParty/internal/store"
	"github.com/priyanshu442004/WatchParty/internal/ws"
)

type fakeDirectory struct {
	rooms map[string]store.Room
}

func (f *fakeDirectory) CreateRoom(_ context.Context, name string) (store.Room, error) {
	rm := store.Room{ID: "room-" + name, Name: name, CreatedAt: time.Unix(1700000000, 0).UTC()}
	f.rooms[rm.ID] = rm
	return rm, nil
}

func (f *fakeDirectory) ListRooms(_ context.Context, limit, offset int) ([]store.Room, error) {
	out := make([]store.Room, 0, len(f.rooms))
	for _, rm := range f.rooms {
		out = append(out, rm)
	}
	return out, nil
}

func (f *fakeDirectory) GetRoom(_ context.Context, id string) (store.Room, error) {
	rm, ok := f.rooms[id]
	if !ok {
		return store.Room{}, store.ErrRoomNotFound
	}
	return rm, nil
}

type fakePresence struct {
	byRoom map[string][]ws.ParticipantInfo
}

func (f *fakePresence) Participants(roomID string) []ws.ParticipantInfo {
	return f.byRoom[roomID]
}

func newTestAPI() (*RoomsAPI, *fakeDirectory, *fakePresence) {
	dir := &fakeDirectory{rooms: map[string]store.Room{}}
	live := &fakePresence{byRoom: map[string][]ws.ParticipantInfo{}}
	return &RoomsAPI{Dir: dir, Live: live}, dir, live
}

func TestCreateRoom(t *testing.T) {
	api, _, _ := newTestAPI()

	req := httptest.NewRequest("POST", "/api/rooms", strings.NewReader(`{"name":"movie night"}`))
	rec := httptest.NewRecorder()
	api.Create(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ID == "" || resp.Name != "movie night" || resp.CreatedAt.IsZero() {
		t.Errorf("resp = %+v", resp)
	}
}

func TestCreateRoomRejectsBadPayload(t *testing.T) {
	api, _, _ := newTestAPI()

	for _, body := range []string{`{`, `{"name":""}`, ``} {
		req := httptest.NewRequest("POST", "/api/rooms", strings.NewReader(body))
		rec := httptest.NewRecorder()
		api.Create(rec, req)
		if rec.Code != 400 {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestListRooms(t *testing.T) {
	api, dir, _ := newTestAPI()
	_, _ = dir.CreateRoom(context.Background(), "a")
	_, _ = dir.CreateRoom(context.Background(), "b")

	req := httptest.NewRequest("GET", "/api/rooms", nil)
	rec := httptest.NewRecorder()
	api.List(rec, req)

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp) != 2 {
		t.Errorf("listed %d rooms, want 2", len(resp))
	}
}

func TestGetRoomMergesLivePresence(t *testing.T) {
	api, dir, live := newTestAPI()
	rm, _ := dir.CreateRoom(context.Background(), "standup")
	live.byRoom[rm.ID] = []ws.ParticipantInfo{
		{ConnectionID: "c1", PresenceState: ws.PresenceState{DisplayName: "Alice", VideoEnabled: true, AudioEnabled: false}},
	}

	req := httptest.NewRequest("GET", "/api/rooms/"+rm.ID, nil)
	req.SetPathValue("id", rm.ID)
	rec := httptest.NewRecorder()
	api.Get(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Room             map[string]any `json:"room"`
		Participants     []map[string]any
		ParticipantCount int `json:"participantCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.ParticipantCount != 1 || len(resp.Participants) != 1 {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Participants[0]["connectionId"] != "c1" || resp.Participants[0]["audioEnabled"] != false {
		t.Errorf("participant = %+v", resp.Participants[0])
	}
}

func TestGetRoomWithoutPresence(t *testing.T) {
	api, dir, _ := newTestAPI()
	rm, _ := dir.CreateRoom(context.Background(), "quiet")

	req := httptest.NewRequest("GET", "/api/rooms/"+rm.ID, nil)
	req.SetPathValue("id", rm.ID)
	rec := httptest.NewRecorder()
	api.Get(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"participants":[]`) {
		t.Errorf("expected empty participants array, got %s", rec.Body)
	}
}

func TestGetRoomNotFound(t *testing.T) {
	api, _, _ := newTestAPI()

	req := httptest.NewRequest("GET", "/api/rooms/nope", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	api.Get(rec, req)

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
