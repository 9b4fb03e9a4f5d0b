package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GroundState is the actor's vertical support state.
type GroundState int

const (
	Falling GroundState = iota
	Grounded
)

func (g GroundState) String() string {
	if g == Grounded {
		return "grounded"
	}
	return "falling"
}

// InputState is one frame of intent for an actor. Yaw and Pitch are radians.
type InputState struct {
	Forward  bool    `json:"forward"`
	Backward bool    `json:"backward"`
	Left     bool    `json:"left"`
	Right    bool    `json:"right"`
	Sprint   bool    `json:"sprint"`
	Jump     bool    `json:"jump"`
	Shoot    bool    `json:"shoot"`
	Steal    bool    `json:"steal"`
	Power    float64 `json:"power"` // shot power in [0,1]
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
}

// MoveDirection is the normalized horizontal wish direction, or zero.
func (in InputState) MoveDirection() mgl64.Vec3 {
	var d mgl64.Vec3
	fwd := FacingDirection(in.Yaw)
	right := RightDirection(in.Yaw)
	if in.Forward {
		d = d.Add(fwd)
	}
	if in.Backward {
		d = d.Sub(fwd)
	}
	if in.Right {
		d = d.Add(right)
	}
	if in.Left {
		d = d.Sub(right)
	}
	if d.Len() < 1e-9 {
		return mgl64.Vec3{}
	}
	return d.Normalize()
}

// KinematicActor is a player body. Position is the bottom center.
type KinematicActor struct {
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Width     float64
	Height    float64
	State     GroundState
	Stamina   float64
	Sprinting bool
	// Exhausted latches once stamina runs out and holds until sprint is
	// released.
	Exhausted bool
	Respawn   mgl64.Vec3
}

func NewKinematicActor(spawn mgl64.Vec3, stamina float64) *KinematicActor {
	return &KinematicActor{
		Position: spawn,
		Width:    PlayerWidth,
		Height:   PlayerHeight,
		Stamina:  stamina,
		Respawn:  spawn,
	}
}

func (a *KinematicActor) Shape() FeetShape { return FeetShape{Width: a.Width, Height: a.Height} }

func (a *KinematicActor) Bounds() AxisAlignedBox { return FeetBox(a.Position, a.Width, a.Height) }

func (a *KinematicActor) Grounded() bool { return a.State == Grounded }

// ActorStepResult summarizes one actor step.
type ActorStepResult struct {
	Landed   bool
	Jumped   bool
	Reset    bool
	Contacts int
}

// ActorStepper integrates and collides kinematic actors.
type ActorStepper struct {
	Tuning    ActorTuning
	Colliders ColliderSet
}

// Step advances a by dt. The ground state is recomputed from scratch: only
// a vertical hard stop while descending makes the actor Grounded.
func (s ActorStepper) Step(a *KinematicActor, in InputState, dt float64) ActorStepResult {
	var res ActorStepResult
	if dt <= 0 {
		return res
	}
	t := s.Tuning
	wasGrounded := a.Grounded()
	a.State = Falling

	damp := math.Exp(-t.Damping * dt)
	a.Velocity[0] *= damp
	a.Velocity[2] *= damp
	a.Velocity[1] -= t.Gravity * dt

	dir := in.MoveDirection()
	moving := dir != (mgl64.Vec3{})
	if !in.Sprint {
		a.Exhausted = false
	} else if a.Stamina <= 0 {
		a.Exhausted = true
	}
	a.Sprinting = in.Sprint && moving && !a.Exhausted
	if a.Sprinting {
		a.Stamina = math.Max(0, a.Stamina-t.StaminaDrain*dt)
		a.Exhausted = a.Stamina == 0
	} else {
		a.Stamina = math.Min(t.StaminaMax, a.Stamina+t.StaminaRegen*dt)
	}

	if moving {
		a.Velocity[0] += dir.X() * t.Accel * dt
		a.Velocity[2] += dir.Z() * t.Accel * dt
	}
	limit := t.BaseSpeed
	if a.Sprinting {
		limit *= t.SprintMultiplier
	}
	if h := Horizontal(a.Velocity); h.Len() > limit {
		h = h.Normalize().Mul(limit)
		a.Velocity[0], a.Velocity[2] = h.X(), h.Z()
	}

	if in.Jump && wasGrounded {
		a.Velocity[1] = t.JumpSpeed
		res.Jumped = true
	}

	var boxes []AxisAlignedBox
	if s.Colliders != nil {
		boxes = s.Colliders.Boxes()
	}
	shape := a.Shape()
	var r Resolver
	for _, axis := range actorAxisOrder {
		a.Position[axis] += a.Velocity[axis] * dt
		out := r.HardStop(&a.Position, &a.Velocity, shape, boxes, axis)
		res.Contacts += out.Contacts
		if out.Landed {
			a.State = Grounded
			res.Landed = true
		}
	}

	if a.Position.Y() < t.FallFloorY {
		a.Position = a.Respawn
		a.Velocity = mgl64.Vec3{}
		a.State = Falling
		res.Reset = true
	}
	return res
}
