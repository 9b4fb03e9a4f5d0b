package game

import "github.com/Peter211231231231232131/basketbgallgame/internal/physics"

type Team string

const (
	TeamHome Team = "home"
	TeamAway Team = "away"
)

func (t Team) Opponent() Team {
	if t == TeamHome {
		return TeamAway
	}
	return TeamHome
}

func (t Team) Valid() bool { return t == TeamHome || t == TeamAway }

// ActorKind says who drives a player.
type ActorKind int

const (
	KindLocal  ActorKind = iota // input from the caller
	KindBot                     // input from the built-in AI
	KindRemote                  // position from the relay, never simulated here
)

func (k ActorKind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindBot:
		return "bot"
	case KindRemote:
		return "remote"
	}
	return "unknown"
}

type MatchStatus string

const (
	StatusWaiting    MatchStatus = "WAITING"
	StatusInProgress MatchStatus = "IN_PROGRESS"
	StatusCompleted  MatchStatus = "COMPLETED"
)

type EventType string

const (
	EventGrab       EventType = "grab"
	EventShot       EventType = "shot"
	EventSteal      EventType = "steal"
	EventScore      EventType = "score"
	EventBallReset  EventType = "ball_reset"
	EventActorReset EventType = "actor_reset"
	EventMatchOver  EventType = "match_over"
)

// Event is something that happened during a tick.
type Event struct {
	Type   EventType       `json:"type"`
	Actor  physics.ActorID `json:"actor,omitempty"`
	Team   Team            `json:"team,omitempty"`
	Points int             `json:"points,omitempty"`
	At     float64         `json:"at"`
}
