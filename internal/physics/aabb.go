package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AxisAlignedBox is a world-space box given by its min and max corners.
type AxisAlignedBox struct {
	Min mgl64.Vec3 `json:"min" yaml:"min"`
	Max mgl64.Vec3 `json:"max" yaml:"max"`
}

// BoxFromCenter builds a box from a center point and full size.
func BoxFromCenter(center, size mgl64.Vec3) AxisAlignedBox {
	half := size.Mul(0.5)
	return AxisAlignedBox{Min: center.Sub(half), Max: center.Add(half)}
}

// FeetBox is the box of a standing actor whose origin sits at its feet.
func FeetBox(feet mgl64.Vec3, width, height float64) AxisAlignedBox {
	hw := width / 2
	return AxisAlignedBox{
		Min: mgl64.Vec3{feet.X() - hw, feet.Y(), feet.Z() - hw},
		Max: mgl64.Vec3{feet.X() + hw, feet.Y() + height, feet.Z() + hw},
	}
}

// SphereBox is the cube that bounds a sphere.
func SphereBox(center mgl64.Vec3, radius float64) AxisAlignedBox {
	r := mgl64.Vec3{radius, radius, radius}
	return AxisAlignedBox{Min: center.Sub(r), Max: center.Add(r)}
}

func (b AxisAlignedBox) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AxisAlignedBox) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Overlap returns the per-axis penetration depth. A non-positive component
// means the boxes are apart on that axis.
func (b AxisAlignedBox) Overlap(o AxisAlignedBox) mgl64.Vec3 {
	var d mgl64.Vec3
	for i := 0; i < 3; i++ {
		d[i] = math.Min(b.Max[i], o.Max[i]) - math.Max(b.Min[i], o.Min[i])
	}
	return d
}

// Intersects reports a strict overlap on every axis.
func (b AxisAlignedBox) Intersects(o AxisAlignedBox) bool {
	d := b.Overlap(o)
	return d[0] > 0 && d[1] > 0 && d[2] > 0
}

// Penetrates is Intersects with the contact tolerance applied: overlaps
// thinner than ContactEpsilon on any axis are resting contact.
func (b AxisAlignedBox) Penetrates(o AxisAlignedBox) bool {
	d := b.Overlap(o)
	return d[0] >= ContactEpsilon && d[1] >= ContactEpsilon && d[2] >= ContactEpsilon
}

func (b AxisAlignedBox) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

func (b AxisAlignedBox) Translate(d mgl64.Vec3) AxisAlignedBox {
	return AxisAlignedBox{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Union returns the smallest box enclosing both.
func (b AxisAlignedBox) Union(o AxisAlignedBox) AxisAlignedBox {
	var out AxisAlignedBox
	for i := 0; i < 3; i++ {
		out.Min[i] = math.Min(b.Min[i], o.Min[i])
		out.Max[i] = math.Max(b.Max[i], o.Max[i])
	}
	return out
}

func (b AxisAlignedBox) Valid() bool {
	return isFinite(b.Min) && isFinite(b.Max) &&
		b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}
