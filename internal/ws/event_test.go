package ws

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeInbound(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  Inbound
	}{
		{
			name:  "join",
			frame: `{"type":"join","roomId":"r1","displayName":"Alice"}`,
			want:  Join{RoomID: "r1", DisplayName: "Alice"},
		},
		{
			name:  "offer",
			frame: `{"type":"offer","targetConnectionId":"c2","payload":{"sdp":"v=0"}}`,
			want:  Offer{TargetID: "c2", Payload: json.RawMessage(`{"sdp":"v=0"}`)},
		},
		{
			name:  "answer",
			frame: `{"type":"answer","targetConnectionId":"c1","payload":"blob"}`,
			want:  Answer{TargetID: "c1", Payload: json.RawMessage(`"blob"`)},
		},
		{
			name:  "ice candidate",
			frame: `{"type":"ice-candidate","targetConnectionId":"c1"}`,
			want:  ICECandidate{TargetID: "c1"},
		},
		{
			name:  "toggle video off",
			frame: `{"type":"toggle-video","enabled":false}`,
			want:  ToggleVideo{Enabled: false},
		},
		{
			name:  "toggle audio on",
			frame: `{"type":"toggle-audio","enabled":true}`,
			want:  ToggleAudio{Enabled: true},
		},
		{
			name:  "screen share start",
			frame: `{"type":"screen-share-start"}`,
			want:  ScreenShareStart{},
		},
		{
			name:  "screen share stop",
			frame: `{"type":"screen-share-stop"}`,
			want:  ScreenShareStop{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.frame))
			if err != nil {
				t.Fatalf("DecodeInbound: %v", err)
			}
			gj, _ := json.Marshal(got)
			wj, _ := json.Marshal(tt.want)
			if string(gj) != string(wj) {
				t.Errorf("got %T %s, want %T %s", got, gj, tt.want, wj)
			}
		})
	}
}

func TestDecodeInboundRejects(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"not json", `{{{`},
		{"unknown type", `{"type":"subscribe"}`},
		{"empty type", `{}`},
		{"join without roomId", `{"type":"join","displayName":"Alice"}`},
		{"offer without target", `{"type":"offer","payload":{}}`},
		{"toggle without enabled", `{"type":"toggle-video"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ev, err := DecodeInbound([]byte(tt.frame)); err == nil {
				t.Errorf("decoded %q into %T, want error", tt.frame, ev)
			}
		})
	}
}

func TestOutboundWireShape(t *testing.T) {
	b, err := json.Marshal(Joined{
		Type:   KindJoined,
		RoomID: "r1",
		Participants: map[string]PresenceState{
			"c1": {DisplayName: "Alice", VideoEnabled: true, AudioEnabled: true},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"type":"joined"`, `"roomId":"r1"`, `"displayName":"Alice"`, `"screenSharing":false`} {
		if !strings.Contains(string(b), field) {
			t.Errorf("joined frame %s missing %s", b, field)
		}
	}

	b, _ = json.Marshal(Signal{Type: KindICECandidate, FromConnectionID: "c1", Payload: json.RawMessage(`{"candidate":"x"}`)})
	if !strings.Contains(string(b), `"type":"ice-candidate"`) || !strings.Contains(string(b), `"fromConnectionId":"c1"`) {
		t.Errorf("signal frame = %s", b)
	}
}
