// Package protocol defines the JSON frames exchanged over the relay.
package protocol

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	TypeActorState = "actor_state"
	TypeBallState  = "ball_state"
	TypeScore      = "score"
	TypePing       = "ping"
	TypePong       = "pong"
	TypeError      = "error"
	TypePeerJoined = "peer_joined"
	TypePeerLeft   = "peer_left"
)

// Envelope wraps every frame. Sender is stamped by the relay; whatever a
// client puts there is overwritten.
type Envelope struct {
	Type   string          `json:"type"`
	Sender string          `json:"sender,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// ActorStateData is a periodic pose update.
type ActorStateData struct {
	Position mgl64.Vec3 `json:"position"`
	Yaw      float64    `json:"yaw"`
}

// BallStateData is a ball update. Owner is empty for a loose ball.
type BallStateData struct {
	Owner    string     `json:"ownerId,omitempty"`
	Position mgl64.Vec3 `json:"position"`
	Velocity mgl64.Vec3 `json:"velocity"`
}

type ScoreData struct {
	Home   int    `json:"home"`
	Away   int    `json:"away"`
	Scorer string `json:"scorer,omitempty"`
}

type PeerData struct {
	Name string `json:"name,omitempty"`
}

type ErrorData struct {
	Message string `json:"message"`
}

// Relayed reports whether frames of type t are fanned out to the room.
func Relayed(t string) bool {
	switch t {
	case TypeActorState, TypeBallState, TypeScore:
		return true
	}
	return false
}
