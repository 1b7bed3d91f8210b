package ws

import (
	"encoding/json"
	"fmt"
)

// Kind is the wire tag carried in the "type" field of every event.
type Kind string

// Inbound event kinds.
const (
	KindJoin             Kind = "join"
	KindOffer            Kind = "offer"
	KindAnswer           Kind = "answer"
	KindICECandidate     Kind = "ice-candidate"
	KindToggleVideo      Kind = "toggle-video"
	KindToggleAudio      Kind = "toggle-audio"
	KindScreenShareStart Kind = "screen-share-start"
	KindScreenShareStop  Kind = "screen-share-stop"
)

// Outbound event kinds.
const (
	KindConnected            Kind = "connected"
	KindJoined               Kind = "joined"
	KindPeerJoined           Kind = "peer-joined"
	KindPeerLeft             Kind = "peer-left"
	KindPeerToggledVideo     Kind = "peer-toggled-video"
	KindPeerToggledAudio     Kind = "peer-toggled-audio"
	KindPeerScreenShareStart Kind = "peer-screen-share-start"
	KindPeerScreenShareStop  Kind = "peer-screen-share-stop"
)

// Inbound is a client-to-server signaling event. The set of variants is
// closed: a new event kind means a new struct here, a new case in
// DecodeInbound, and a new case in Router.Handle.
type Inbound interface{ inbound() }

type Join struct {
	RoomID      string
	DisplayName string
}

// Offer, Answer and ICECandidate carry an opaque handshake blob to a single
// target connection. The relay never inspects the payload.
type Offer struct {
	TargetID string
	Payload  json.RawMessage
}

type Answer struct {
	TargetID string
	Payload  json.RawMessage
}

type ICECandidate struct {
	TargetID string
	Payload  json.RawMessage
}

type ToggleVideo struct{ Enabled bool }

type ToggleAudio struct{ Enabled bool }

type ScreenShareStart struct{}

type ScreenShareStop struct{}

func (Join) inbound()             {}
func (Offer) inbound()            {}
func (Answer) inbound()           {}
func (ICECandidate) inbound()     {}
func (ToggleVideo) inbound()      {}
func (ToggleAudio) inbound()      {}
func (ScreenShareStart) inbound() {}
func (ScreenShareStop) inbound()  {}

// inboundEnvelope is the superset of fields a client frame may carry.
type inboundEnvelope struct {
	Type               Kind            `json:"type"`
	RoomID             string          `json:"roomId"`
	DisplayName        string          `json:"displayName"`
	TargetConnectionID string          `json:"targetConnectionId"`
	Enabled            *bool           `json:"enabled"`
	Payload            json.RawMessage `json:"payload"`
}

// DecodeInbound parses a client frame into its typed variant. A frame with an
// unknown type or a missing required field is an error; callers drop it.
func DecodeInbound(data []byte) (Inbound, error) {
	var env inboundEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	switch env.Type {
	case KindJoin:
		if env.RoomID == "" {
			return nil, fmt.Errorf("%s: missing roomId", env.Type)
		}
		return Join{RoomID: env.RoomID, DisplayName: env.DisplayName}, nil

	case KindOffer, KindAnswer, KindICECandidate:
		if env.TargetConnectionID == "" {
			return nil, fmt.Errorf("%s: missing targetConnectionId", env.Type)
		}
		switch env.Type {
		case KindOffer:
			return Offer{TargetID: env.TargetConnectionID, Payload: env.Payload}, nil
		case KindAnswer:
			return Answer{TargetID: env.TargetConnectionID, Payload: env.Payload}, nil
		default:
			return ICECandidate{TargetID: env.TargetConnectionID, Payload: env.Payload}, nil
		}

	case KindToggleVideo, KindToggleAudio:
		if env.Enabled == nil {
			return nil, fmt.Errorf("%s: missing enabled", env.Type)
		}
		if env.Type == KindToggleVideo {
			return ToggleVideo{Enabled: *env.Enabled}, nil
		}
		return ToggleAudio{Enabled: *env.Enabled}, nil

	case KindScreenShareStart:
		return ScreenShareStart{}, nil
	case KindScreenShareStop:
		return ScreenShareStop{}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", env.Type)
}

// Outbound is a server-to-client event. Each variant is a flat JSON object
// whose Type field carries the wire tag.
type Outbound interface{ outbound() }

type Connected struct {
	Type         Kind   `json:"type"`
	ConnectionID string `json:"connectionId"`
}

// PresenceState is a participant's flags as sent to clients.
type PresenceState struct {
	DisplayName   string `json:"displayName"`
	VideoEnabled  bool   `json:"videoEnabled"`
	AudioEnabled  bool   `json:"audioEnabled"`
	ScreenSharing bool   `json:"screenSharing"`
}

type Joined struct {
	Type         Kind                     `json:"type"`
	RoomID       string                   `json:"roomId"`
	Participants map[string]PresenceState `json:"participants"`
}

type PeerJoined struct {
	Type         Kind   `json:"type"`
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

type PeerLeft struct {
	Type         Kind   `json:"type"`
	ConnectionID string `json:"connectionId"`
}

// Signal is the relayed form of offer/answer/ice-candidate; Type preserves
// the inbound kind.
type Signal struct {
	Type             Kind            `json:"type"`
	FromConnectionID string          `json:"fromConnectionId"`
	Payload          json.RawMessage `json:"payload,omitempty"`
}

type PeerToggled struct {
	Type         Kind   `json:"type"`
	ConnectionID string `json:"connectionId"`
	Enabled      bool   `json:"enabled"`
}

type PeerScreenShare struct {
	Type         Kind   `json:"type"`
	ConnectionID string `json:"connectionId"`
}

func (Connected) outbound()       {}
func (Joined) outbound()          {}
func (PeerJoined) outbound()      {}
func (PeerLeft) outbound()        {}
func (Signal) outbound()          {}
func (PeerToggled) outbound()     {}
func (PeerScreenShare) outbound() {}
