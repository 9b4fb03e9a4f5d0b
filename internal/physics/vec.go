package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis names one of the three world axes. Y is up.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// actorAxisOrder is the resolution order for kinematic actors. Vertical
// last so a wall slide never eats the landing.
var actorAxisOrder = [...]Axis{AxisX, AxisZ, AxisY}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "?"
}

// Unit returns the positive unit vector along a.
func (a Axis) Unit() mgl64.Vec3 {
	var v mgl64.Vec3
	v[a] = 1
	return v
}

// FacingDirection returns the horizontal unit vector a yaw (radians) faces.
// Yaw 0 looks down -Z, positive yaw turns left.
func FacingDirection(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(yaw), 0, -math.Cos(yaw)}
}

// RightDirection returns the horizontal unit vector to the right of yaw.
func RightDirection(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(yaw), 0, -math.Sin(yaw)}
}

// YawToward returns the yaw that faces from -> to on the ground plane.
func YawToward(from, to mgl64.Vec3) float64 {
	dx := to.X() - from.X()
	dz := to.Z() - from.Z()
	return math.Atan2(-dx, -dz)
}

// Horizontal drops the Y component.
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// HorizontalDistance is the ground-plane distance between a and b.
func HorizontalDistance(a, b mgl64.Vec3) float64 {
	return Horizontal(b.Sub(a)).Len()
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func signOf(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
