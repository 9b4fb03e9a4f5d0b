package physics

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoSolution means no launch speed at the given angle reaches the target.
var ErrNoSolution = errors.New("physics: no ballistic solution")

// ShotRequest asks for a launch from Origin through Target at a fixed
// elevation. LaunchAngleDeg is measured from the horizontal.
type ShotRequest struct {
	Origin         mgl64.Vec3
	Target         mgl64.Vec3
	LaunchAngleDeg float64
}

// SolveLaunch returns the launch velocity that carries a drag-free
// projectile through the target under gravity g.
func SolveLaunch(req ShotRequest, g float64) (mgl64.Vec3, error) {
	delta := req.Target.Sub(req.Origin)
	flat := Horizontal(delta)
	x := flat.Len()
	y := delta.Y()
	if x < 1e-6 {
		return mgl64.Vec3{}, ErrNoSolution
	}
	theta := mgl64.DegToRad(req.LaunchAngleDeg)
	cos := math.Cos(theta)
	if math.Abs(cos) < 1e-6 {
		return mgl64.Vec3{}, ErrNoSolution
	}
	denom := 2 * cos * cos * (x*math.Tan(theta) - y)
	if denom <= 0 {
		return mgl64.Vec3{}, ErrNoSolution
	}
	v := math.Sqrt(g * x * x / denom)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return mgl64.Vec3{}, ErrNoSolution
	}
	dir := flat.Mul(1 / x)
	return dir.Mul(v * cos).Add(mgl64.Vec3{0, v * math.Sin(theta), 0}), nil
}

// FlightTime is how long a drag-free launch takes to cover the horizontal
// distance to target.
func FlightTime(origin, target, velocity mgl64.Vec3) float64 {
	hs := Horizontal(velocity).Len()
	if hs < 1e-9 {
		return 0
	}
	return HorizontalDistance(origin, target) / hs
}

// CompensateDrag stretches the horizontal part of a drag-free launch so a
// ball under exponential horizontal drag still covers the same ground in
// the same flight time. Vertical motion is unaffected by drag, so the
// corrected launch passes through the original target.
func CompensateDrag(origin, target, velocity mgl64.Vec3, drag float64) mgl64.Vec3 {
	tf := FlightTime(origin, target, velocity)
	if drag <= 0 || tf <= 0 {
		return velocity
	}
	k := drag * tf
	factor := k / (1 - math.Exp(-k))
	return mgl64.Vec3{velocity.X() * factor, velocity.Y(), velocity.Z() * factor}
}
