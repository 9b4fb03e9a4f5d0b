package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ActorID identifies a player for ball ownership.
type ActorID string

// Owner is either nobody or exactly one actor.
type Owner struct {
	id   ActorID
	held bool
}

// NoOwner is the loose-ball owner.
var NoOwner = Owner{}

func OwnedBy(id ActorID) Owner { return Owner{id: id, held: true} }

func (o Owner) Held() bool { return o.held }

func (o Owner) ID() (ActorID, bool) { return o.id, o.held }

// Is reports whether id holds the ball.
func (o Owner) Is(id ActorID) bool { return o.held && o.id == id }

func (o Owner) String() string {
	if !o.held {
		return "none"
	}
	return string(o.id)
}

// Trail is a fixed ring of recent ball positions.
type Trail struct {
	points [TrailLength]mgl64.Vec3
	next   int
	count  int
}

func (t *Trail) Push(p mgl64.Vec3) {
	t.points[t.next] = p
	t.next = (t.next + 1) % TrailLength
	if t.count < TrailLength {
		t.count++
	}
}

func (t *Trail) Clear() { *t = Trail{} }

// Points returns the trail oldest first.
func (t *Trail) Points() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, t.count)
	start := (t.next - t.count + TrailLength) % TrailLength
	for i := 0; i < t.count; i++ {
		out = append(out, t.points[(start+i)%TrailLength])
	}
	return out
}

// Projectile is the ball.
type Projectile struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Radius   float64
	Owner    Owner
	Active   bool
	Spawn    mgl64.Vec3
	Trail    Trail
}

func NewProjectile(spawn mgl64.Vec3) *Projectile {
	return &Projectile{Position: spawn, Radius: BallRadius, Active: true, Spawn: spawn}
}

func (p *Projectile) Bounds() AxisAlignedBox { return SphereBox(p.Position, p.Radius) }

// ResetToSpawn drops the ball loose and motionless at its spawn point.
func (p *Projectile) ResetToSpawn() {
	p.Position = p.Spawn
	p.Velocity = mgl64.Vec3{}
	p.Owner = NoOwner
	p.Active = true
	p.Trail.Clear()
}

// ProjectileStepResult summarizes one projectile step.
type ProjectileStepResult struct {
	Stepped  bool
	SubSteps int
	Bounces  int
	Reset    bool
}

// ProjectileStepper advances a loose ball in fixed sub-steps.
type ProjectileStepper struct {
	Tuning    BallTuning
	Colliders ColliderSet
}

// Step integrates p over dt. A held or inactive ball is left untouched and
// Stepped is false. dt is clamped to MaxFrameDelta.
func (s ProjectileStepper) Step(p *Projectile, dt float64) ProjectileStepResult {
	var res ProjectileStepResult
	if p.Owner.Held() || !p.Active || dt <= 0 {
		return res
	}
	res.Stepped = true
	dt = math.Min(dt, MaxFrameDelta)

	var boxes []AxisAlignedBox
	if s.Colliders != nil {
		boxes = s.Colliders.Boxes()
	}
	r := Resolver{Restitution: s.Tuning.Restitution, Friction: s.Tuning.Friction, RestSpeed: s.Tuning.RestSpeed}
	shape := SphereShape{Radius: p.Radius}
	h := s.Tuning.subStep()

	for remaining := dt; remaining > stepEpsilon; remaining -= h {
		step := math.Min(remaining, h)
		p.Position, p.Velocity = s.Tuning.advance(p.Position, p.Velocity, step)
		out := r.Bounce(&p.Position, &p.Velocity, shape, boxes)
		if out.Bounced {
			res.Bounces++
		}
		res.SubSteps++
	}
	p.Trail.Push(p.Position)

	if p.Position.Y() < s.Tuning.FallFloorY {
		p.ResetToSpawn()
		res.Reset = true
	}
	return res
}

// advance is the closed-form free flight over h: constant gravity and
// exponential horizontal drag. Splitting h into pieces yields the same end
// state.
func (t BallTuning) advance(pos, vel mgl64.Vec3, h float64) (mgl64.Vec3, mgl64.Vec3) {
	pos[1] += vel[1]*h - 0.5*t.Gravity*h*h
	vel[1] -= t.Gravity * h

	travel := h
	decay := 1.0
	if t.Drag > 0 {
		decay = math.Exp(-t.Drag * h)
		travel = (1 - decay) / t.Drag
	}
	pos[0] += vel[0] * travel
	pos[2] += vel[2] * travel
	vel[0] *= decay
	vel[2] *= decay
	return pos, vel
}
