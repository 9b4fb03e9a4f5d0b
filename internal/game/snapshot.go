package game

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
)

type ActorSnapshot struct {
	ID        physics.ActorID `json:"id"`
	Name      string          `json:"name"`
	Team      Team            `json:"team"`
	Kind      string          `json:"kind"`
	Position  mgl64.Vec3      `json:"position"`
	Velocity  mgl64.Vec3      `json:"velocity"`
	Yaw       float64         `json:"yaw"`
	Grounded  bool            `json:"grounded"`
	Holding   bool            `json:"holding"`
	Stamina   float64         `json:"stamina"`
	Sprinting bool            `json:"sprinting"`
}

type BallSnapshot struct {
	Owner    physics.ActorID `json:"owner,omitempty"`
	Position mgl64.Vec3      `json:"position"`
	Velocity mgl64.Vec3      `json:"velocity"`
	Trail    []mgl64.Vec3    `json:"trail,omitempty"`
}

// Snapshot is a deep copy of the match for rendering and broadcast.
type Snapshot struct {
	ID      string          `json:"id"`
	Tick    uint64          `json:"tick"`
	Elapsed float64         `json:"elapsed"`
	Status  MatchStatus     `json:"status"`
	Home    int             `json:"home"`
	Away    int             `json:"away"`
	Winner  Team            `json:"winner,omitempty"`
	Actors  []ActorSnapshot `json:"actors"`
	Ball    BallSnapshot    `json:"ball"`
}

// Snapshot copies the current state. Holding comes from the ball owner so
// a steal mid-tick never shows two holders.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		ID:      m.ID,
		Tick:    m.ticks,
		Elapsed: m.elapsed,
		Status:  m.status,
		Home:    m.score[TeamHome],
		Away:    m.score[TeamAway],
		Winner:  m.winner,
		Actors:  make([]ActorSnapshot, 0, len(m.players)),
	}
	for _, p := range m.players {
		s.Actors = append(s.Actors, ActorSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Team:      p.Team,
			Kind:      p.Kind.String(),
			Position:  p.Body.Position,
			Velocity:  p.Body.Velocity,
			Yaw:       p.Yaw,
			Grounded:  p.Body.Grounded(),
			Holding:   m.ball.Owner.Is(p.ID),
			Stamina:   p.Body.Stamina,
			Sprinting: p.Body.Sprinting,
		})
	}
	owner, _ := m.ball.Owner.ID()
	s.Ball = BallSnapshot{
		Owner:    owner,
		Position: m.ball.Position,
		Velocity: m.ball.Velocity,
		Trail:    m.ball.Trail.Points(),
	}
	return s
}
