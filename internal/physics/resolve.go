package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Policy selects how a mover responds to penetration.
type Policy int

const (
	// HardStop pushes the mover out along the movement axis and zeroes
	// that velocity component.
	HardStop Policy = iota
	// Bounce pushes out along the least-overlap axis and reflects.
	Bounce
)

// Shape maps a mover's position to its box.
type Shape interface {
	BoxAt(pos mgl64.Vec3) AxisAlignedBox
}

// FeetShape is an actor-style box anchored at the bottom center.
type FeetShape struct {
	Width, Height float64
}

func (s FeetShape) BoxAt(pos mgl64.Vec3) AxisAlignedBox {
	return FeetBox(pos, s.Width, s.Height)
}

// SphereShape is a ball bounded by a cube.
type SphereShape struct {
	Radius float64
}

func (s SphereShape) BoxAt(pos mgl64.Vec3) AxisAlignedBox {
	return SphereBox(pos, s.Radius)
}

// Resolution reports what a resolve pass did to the mover.
type Resolution struct {
	PositionDelta   mgl64.Vec3
	VelocityCleared bool
	ClearedAxis     Axis
	Contacts        int
	Landed          bool       // hard stop pushed up while descending
	Normal          mgl64.Vec3 // last bounce normal
	Bounced         bool
}

// Resolver corrects a mover against a fixed set of boxes. Restitution,
// Friction and RestSpeed only apply to the Bounce policy.
type Resolver struct {
	Restitution float64
	Friction    float64
	RestSpeed   float64
}

// Resolve dispatches on policy. axis is ignored for Bounce.
func (r Resolver) Resolve(pos, vel *mgl64.Vec3, shape Shape, boxes []AxisAlignedBox, axis Axis, policy Policy) Resolution {
	if policy == Bounce {
		return r.Bounce(pos, vel, shape, boxes)
	}
	return r.HardStop(pos, vel, shape, boxes, axis)
}

// HardStop separates the mover from every penetrated box along axis. The
// box is rebuilt after each push so later boxes see the corrected position.
func (r Resolver) HardStop(pos, vel *mgl64.Vec3, shape Shape, boxes []AxisAlignedBox, axis Axis) Resolution {
	var res Resolution
	v0 := vel[axis]
	for _, c := range boxes {
		box := shape.BoxAt(*pos)
		if !box.Penetrates(c) {
			continue
		}
		sign := pushSign(v0, box, c, axis)
		d := separation(box, c, axis, sign) * sign
		pos[axis] += d
		res.PositionDelta[axis] += d
		res.Contacts++
		if axis == AxisY && sign > 0 && v0 < 0 {
			res.Landed = true
		}
		vel[axis] = 0
		res.VelocityCleared = true
		res.ClearedAxis = axis
	}
	return res
}

// Bounce pushes the mover out of each penetrated box along the axis of
// least overlap and reflects the velocity about that normal.
func (r Resolver) Bounce(pos, vel *mgl64.Vec3, shape Shape, boxes []AxisAlignedBox) Resolution {
	var res Resolution
	floor := false
	for _, c := range boxes {
		box := shape.BoxAt(*pos)
		if !box.Penetrates(c) {
			continue
		}
		ov := box.Overlap(c)
		axis := AxisX
		for _, a := range [...]Axis{AxisY, AxisZ} {
			if ov[a] < ov[axis] {
				axis = a
			}
		}
		// the normal is geometric: push toward the side the center is on
		sign := signOf(box.Center()[axis] - c.Center()[axis])
		d := separation(box, c, axis, sign) * sign
		pos[axis] += d
		res.PositionDelta[axis] += d
		res.Contacts++

		n := axis.Unit().Mul(sign)
		if dot := vel.Dot(n); dot < 0 {
			*vel = vel.Sub(n.Mul(2 * dot)).Mul(r.Restitution)
			if math.Abs(n.Y()) > 0.5 {
				vel[0] *= r.Friction
				vel[2] *= r.Friction
			}
			res.Bounced = true
		}
		if n.Y() > 0.5 {
			floor = true
		}
		res.Normal = n
	}
	if floor && math.Abs(vel.Y()) < r.RestSpeed {
		vel[1] = 0
	}
	return res
}

// pushSign opposes the velocity on axis, falling back to the side of the
// collider the mover's center is on.
func pushSign(v float64, box, c AxisAlignedBox, axis Axis) float64 {
	if v != 0 {
		return -signOf(v)
	}
	return signOf(box.Center()[axis] - c.Center()[axis])
}

// separation is the exact distance to move box along sign*axis so it no
// longer overlaps c.
func separation(box, c AxisAlignedBox, axis Axis, sign float64) float64 {
	if sign > 0 {
		return c.Max[axis] - box.Min[axis]
	}
	return box.Max[axis] - c.Min[axis]
}
