package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Hit is the nearest segment/box intersection.
type Hit struct {
	Point mgl64.Vec3
	T     float64 // fraction along the segment
	Box   int     // index into the queried boxes
}

// SegmentCast intersects the segment from -> to with boxes using the slab
// method and returns the nearest entry point. Boxes the segment starts
// inside are ignored. A zero-length segment never hits.
func SegmentCast(from, to mgl64.Vec3, boxes []AxisAlignedBox) (Hit, bool) {
	d := to.Sub(from)
	if d.Len() < 1e-12 {
		return Hit{}, false
	}
	best := Hit{T: math.Inf(1), Box: -1}
	for i, b := range boxes {
		t, ok := slab(from, d, b)
		if ok && t < best.T {
			best = Hit{T: t, Box: i}
		}
	}
	if best.Box < 0 {
		return Hit{}, false
	}
	best.Point = from.Add(d.Mul(best.T))
	return best, true
}

func slab(o, d mgl64.Vec3, b AxisAlignedBox) (float64, bool) {
	tmin, tmax := math.Inf(-1), math.Inf(1)
	for a := 0; a < 3; a++ {
		if math.Abs(d[a]) < 1e-12 {
			if o[a] < b.Min[a] || o[a] > b.Max[a] {
				return 0, false
			}
			continue
		}
		inv := 1 / d[a]
		t1 := (b.Min[a] - o[a]) * inv
		t2 := (b.Max[a] - o[a]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}
	if tmin < 0 || tmin > 1 {
		return 0, false
	}
	return tmin, true
}
