package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
)

// Player is one side of the match. Holding mirrors the ball owner and is
// reconciled at the start of every update.
type Player struct {
	ID      physics.ActorID
	Name    string
	Team    Team
	Kind    ActorKind
	Body    *physics.KinematicActor
	Holding bool
	Yaw     float64
	Pitch   float64
}

// HandPosition is where a held ball sits and shots leave from.
func (p *Player) HandPosition() mgl64.Vec3 {
	return p.Body.Position.
		Add(mgl64.Vec3{0, HandHeight, 0}).
		Add(physics.FacingDirection(p.Yaw).Mul(HandReach))
}

// CanReach reports whether the ball is within grabbing range.
func (p *Player) CanReach(ball mgl64.Vec3) bool {
	feet := p.Body.Position
	if ball.Y() < feet.Y()-0.2 || ball.Y() > feet.Y()+p.Body.Height+GrabHeadroom {
		return false
	}
	return physics.HorizontalDistance(feet, ball) <= GrabRadius
}

// ShotVelocity converts a power in [0,1] and the player's aim into a launch.
func (p *Player) ShotVelocity(power float64) mgl64.Vec3 {
	power = mgl64.Clamp(power, 0, 1)
	speed := MinShotSpeed + power*(MaxShotSpeed-MinShotSpeed)
	pitch := p.Pitch
	if pitch == 0 {
		pitch = mgl64.DegToRad(DefaultPitchDeg)
	}
	return launchVector(physics.FacingDirection(p.Yaw), pitch, speed)
}

func launchVector(dir mgl64.Vec3, pitch, speed float64) mgl64.Vec3 {
	h := physics.Horizontal(dir)
	if l := h.Len(); l > 1e-9 {
		h = h.Mul(1 / l)
	}
	return h.Mul(speed * math.Cos(pitch)).Add(mgl64.Vec3{0, speed * math.Sin(pitch), 0})
}
