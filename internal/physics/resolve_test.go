package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func floorBox() AxisAlignedBox {
	return AxisAlignedBox{Min: mgl64.Vec3{-20, -1, -20}, Max: mgl64.Vec3{20, 0, 20}}
}

func TestHardStopLandsOnFloor(t *testing.T) {
	pos := mgl64.Vec3{0, -0.05, 0}
	vel := mgl64.Vec3{1, -3, 0}
	shape := FeetShape{Width: PlayerWidth, Height: PlayerHeight}

	res := Resolver{}.HardStop(&pos, &vel, shape, []AxisAlignedBox{floorBox()}, AxisY)

	assert.True(t, res.Landed)
	assert.True(t, res.VelocityCleared)
	assert.Equal(t, AxisY, res.ClearedAxis)
	assert.InDelta(t, 0.0, pos.Y(), 1e-12)
	assert.InDelta(t, 0.05, res.PositionDelta.Y(), 1e-12)
	assert.Equal(t, 0.0, vel.Y())
	assert.Equal(t, 1.0, vel.X(), "other axes untouched")
}

func TestHardStopSkipsRestingContact(t *testing.T) {
	pos := mgl64.Vec3{0, -ContactEpsilon / 2, 0}
	vel := mgl64.Vec3{0, -1, 0}

	res := Resolver{}.HardStop(&pos, &vel, FeetShape{Width: 1, Height: 1}, []AxisAlignedBox{floorBox()}, AxisY)

	assert.Equal(t, 0, res.Contacts)
	assert.False(t, res.Landed)
	assert.Equal(t, -1.0, vel.Y())
}

func TestHardStopHeadBumpIsNotLanding(t *testing.T) {
	ceiling := AxisAlignedBox{Min: mgl64.Vec3{-5, 2, -5}, Max: mgl64.Vec3{5, 3, 5}}
	pos := mgl64.Vec3{0, 0.3, 0}
	vel := mgl64.Vec3{0, 4, 0}

	res := Resolver{}.HardStop(&pos, &vel, FeetShape{Width: 0.8, Height: 1.8}, []AxisAlignedBox{ceiling}, AxisY)

	assert.False(t, res.Landed)
	assert.InDelta(t, 0.2, pos.Y(), 1e-12)
	assert.Equal(t, 0.0, vel.Y())
}

func TestHardStopZeroVelocityUsesCenters(t *testing.T) {
	wall := AxisAlignedBox{Min: mgl64.Vec3{1, 0, -5}, Max: mgl64.Vec3{2, 3, 5}}
	pos := mgl64.Vec3{0.8, 0, 0}
	var vel mgl64.Vec3

	Resolver{}.HardStop(&pos, &vel, FeetShape{Width: 0.8, Height: 1.8}, []AxisAlignedBox{wall}, AxisX)

	assert.InDelta(t, 0.6, pos.X(), 1e-12)
}

func TestHardStopLeavesNoPenetration(t *testing.T) {
	boxes := []AxisAlignedBox{
		{Min: mgl64.Vec3{-1, 0, -1}, Max: mgl64.Vec3{1, 2, 1}},
		{Min: mgl64.Vec3{6, 0, -1}, Max: mgl64.Vec3{7, 2, 1}},
	}
	shape := FeetShape{Width: 0.8, Height: 1.8}

	for _, axis := range actorAxisOrder {
		for x := -1.3; x <= 7.3; x += 0.1 {
			for _, v := range []float64{-4, 0, 4} {
				pos := mgl64.Vec3{x, 0.1, 0.2}
				var vel mgl64.Vec3
				vel[axis] = v

				Resolver{}.HardStop(&pos, &vel, shape, boxes, axis)

				for _, b := range boxes {
					if shape.BoxAt(pos).Penetrates(b) {
						t.Fatalf("axis %s start x=%.2f v=%.0f: still penetrating %v", axis, x, v, b)
					}
				}
			}
		}
	}
}

func TestBounceOffFloorReflectsAndDamps(t *testing.T) {
	r := Resolver{Restitution: 0.72, Friction: 0.85, RestSpeed: 0.35}
	pos := mgl64.Vec3{0, 0.24, 0}
	vel := mgl64.Vec3{2, -5, 0}

	res := r.Bounce(&pos, &vel, SphereShape{Radius: 0.25}, []AxisAlignedBox{floorBox()})

	assert.True(t, res.Bounced)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, res.Normal)
	assert.InDelta(t, 0.25, pos.Y(), 1e-12)
	assert.InDelta(t, 5*0.72, vel.Y(), 1e-12)
	assert.InDelta(t, 2*0.72*0.85, vel.X(), 1e-12)
}

func TestBounceOffWallUsesLeastOverlapAxis(t *testing.T) {
	r := Resolver{Restitution: 0.72, Friction: 0.85, RestSpeed: 0.35}
	wall := AxisAlignedBox{Min: mgl64.Vec3{5, 0, -10}, Max: mgl64.Vec3{6, 10, 10}}
	pos := mgl64.Vec3{4.8, 2, 0}
	vel := mgl64.Vec3{4, 0, 1}

	res := r.Bounce(&pos, &vel, SphereShape{Radius: 0.25}, []AxisAlignedBox{wall})

	assert.Equal(t, mgl64.Vec3{-1, 0, 0}, res.Normal)
	assert.InDelta(t, 4.75, pos.X(), 1e-12)
	assert.InDelta(t, -4*0.72, vel.X(), 1e-12)
	assert.InDelta(t, 0.72, vel.Z(), 1e-12, "no floor friction off a wall")
}

func TestBounceSettlesSlowFloorContact(t *testing.T) {
	r := Resolver{Restitution: 0.72, Friction: 0.85, RestSpeed: 0.35}
	pos := mgl64.Vec3{0, 0.245, 0}
	vel := mgl64.Vec3{0, -0.3, 0}

	r.Bounce(&pos, &vel, SphereShape{Radius: 0.25}, []AxisAlignedBox{floorBox()})

	assert.Equal(t, 0.0, vel.Y())
	assert.InDelta(t, 0.25, pos.Y(), 1e-12)
}

func benchBox() AxisAlignedBox {
	return AxisAlignedBox{Min: mgl64.Vec3{0, 0, -1}, Max: mgl64.Vec3{2, 0.5, 1}}
}

func TestBounceRisingBallClippingCornerLandsOnTop(t *testing.T) {
	r := Resolver{Restitution: 0.72, Friction: 0.85, RestSpeed: 0.35}
	pos := mgl64.Vec3{0, 0.61, 0}
	vel := mgl64.Vec3{5, 1, 0}
	shape := SphereShape{Radius: 0.12}

	res := r.Bounce(&pos, &vel, shape, []AxisAlignedBox{floorBox(), benchBox()})

	assert.Equal(t, mgl64.Vec3{0, 1, 0}, res.Normal)
	assert.InDelta(t, 0.62, pos.Y(), 1e-12)
	assert.False(t, res.Bounced, "already moving away from the top face")
	assert.Equal(t, 1.0, vel.Y())
	assert.False(t, shape.BoxAt(pos).Penetrates(floorBox()))
	assert.False(t, shape.BoxAt(pos).Penetrates(benchBox()))
}

func TestBounceLeavesNoPenetration(t *testing.T) {
	r := Resolver{Restitution: 0.72, Friction: 0.85, RestSpeed: 0.35}
	boxes := []AxisAlignedBox{floorBox(), benchBox()}
	shape := SphereShape{Radius: 0.12}

	for x := -0.3; x <= 2.3; x += 0.05 {
		for y := 0.0; y <= 0.8; y += 0.05 {
			for _, vx := range []float64{-4, 0, 4} {
				for _, vy := range []float64{-4, 0, 4} {
					pos := mgl64.Vec3{x, y, 0.3}
					vel := mgl64.Vec3{vx, vy, 0}

					r.Bounce(&pos, &vel, shape, boxes)

					for _, b := range boxes {
						if shape.BoxAt(pos).Penetrates(b) {
							t.Fatalf("start (%.2f, %.2f) v=(%.0f, %.0f): still penetrating %v", x, y, vx, vy, b)
						}
					}
				}
			}
		}
	}
}

func TestBounceSlowHitFromBelowKeepsVerticalSpeed(t *testing.T) {
	r := Resolver{Restitution: 0.72, Friction: 0.85, RestSpeed: 1.0}
	bar := AxisAlignedBox{Min: mgl64.Vec3{-1, 3, -1}, Max: mgl64.Vec3{1, 3.05, 1}}
	pos := mgl64.Vec3{0, 2.885, 0}
	vel := mgl64.Vec3{0, 0.8, 0}

	res := r.Bounce(&pos, &vel, SphereShape{Radius: 0.12}, []AxisAlignedBox{bar})

	assert.Equal(t, mgl64.Vec3{0, -1, 0}, res.Normal)
	assert.True(t, res.Bounced)
	assert.InDelta(t, -0.8*0.72, vel.Y(), 1e-12)
	assert.InDelta(t, 2.88, pos.Y(), 1e-12)
}
