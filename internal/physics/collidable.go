package physics

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform places a collidable's local box in the world.
type Transform struct {
	Position mgl64.Vec3
	Scale    mgl64.Vec3 // zero means unit scale
	YawDeg   float64
}

// Matrix composes translate * rotateY * scale.
func (t Transform) Matrix() mgl64.Mat4 {
	s := t.Scale
	if s == (mgl64.Vec3{}) {
		s = mgl64.Vec3{1, 1, 1}
	}
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(t.YawDeg))).
		Mul4(mgl64.Scale3D(s.X(), s.Y(), s.Z()))
}

// Collidable is a static court element. Its world bounds are computed on
// first use and cached; the transform must not change after that.
type Collidable struct {
	Name      string
	Local     AxisAlignedBox
	Transform Transform

	once   sync.Once
	bounds AxisAlignedBox
}

func NewCollidable(name string, local AxisAlignedBox, t Transform) *Collidable {
	return &Collidable{Name: name, Local: local, Transform: t}
}

// StaticBox wraps a box that is already in world space.
func StaticBox(name string, box AxisAlignedBox) *Collidable {
	return &Collidable{Name: name, Local: box}
}

// Bounds returns the world-space AABB enclosing the transformed local box.
func (c *Collidable) Bounds() AxisAlignedBox {
	c.once.Do(c.computeBounds)
	return c.bounds
}

func (c *Collidable) computeBounds() {
	m := c.Transform.Matrix()
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < 8; i++ {
		corner := c.Local.Min
		if i&1 != 0 {
			corner[0] = c.Local.Max[0]
		}
		if i&2 != 0 {
			corner[1] = c.Local.Max[1]
		}
		if i&4 != 0 {
			corner[2] = c.Local.Max[2]
		}
		w := m.Mul4x1(corner.Vec4(1)).Vec3()
		for a := 0; a < 3; a++ {
			lo[a] = math.Min(lo[a], w[a])
			hi[a] = math.Max(hi[a], w[a])
		}
	}
	c.bounds = AxisAlignedBox{Min: lo, Max: hi}
}

// ColliderSet is the read-only query the steppers resolve against.
type ColliderSet interface {
	Boxes() []AxisAlignedBox
}

// StaticBoxes is a ColliderSet over literal world boxes.
type StaticBoxes []AxisAlignedBox

func (s StaticBoxes) Boxes() []AxisAlignedBox { return s }

// Catalog is the immutable set of court collidables.
type Catalog struct {
	items []*Collidable

	once  sync.Once
	boxes []AxisAlignedBox
}

func NewCatalog(items ...*Collidable) *Catalog {
	return &Catalog{items: items}
}

func (c *Catalog) Items() []*Collidable { return c.items }

func (c *Catalog) Len() int { return len(c.items) }

// Boxes returns the cached world bounds of every item. Callers must not
// modify the returned slice.
func (c *Catalog) Boxes() []AxisAlignedBox {
	c.once.Do(func() {
		c.boxes = make([]AxisAlignedBox, len(c.items))
		for i, it := range c.items {
			c.boxes[i] = it.Bounds()
		}
	})
	return c.boxes
}
