package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollidableBoundsTranslate(t *testing.T) {
	c := NewCollidable("post", BoxFromCenter(mgl64.Vec3{}, mgl64.Vec3{2, 2, 2}), Transform{Position: mgl64.Vec3{5, 1, 0}})

	b := c.Bounds()
	assert.InDelta(t, 4.0, b.Min.X(), 1e-9)
	assert.InDelta(t, 6.0, b.Max.X(), 1e-9)
	assert.InDelta(t, 0.0, b.Min.Y(), 1e-9)
	assert.InDelta(t, 2.0, b.Max.Y(), 1e-9)
}

func TestCollidableBoundsCachedAfterFirstQuery(t *testing.T) {
	c := NewCollidable("wall", BoxFromCenter(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), Transform{Position: mgl64.Vec3{3, 0, 0}})
	first := c.Bounds()

	// Moving the transform after the first query must not change the
	// answer: collidables are static once placed.
	c.Transform.Position = mgl64.Vec3{100, 0, 0}
	assert.Equal(t, first, c.Bounds())
}

func TestCollidableYawSwapsExtents(t *testing.T) {
	c := NewCollidable("board", BoxFromCenter(mgl64.Vec3{}, mgl64.Vec3{4, 1, 1}), Transform{YawDeg: 90})

	size := c.Bounds().Size()
	assert.InDelta(t, 1.0, size.X(), 1e-9)
	assert.InDelta(t, 1.0, size.Y(), 1e-9)
	assert.InDelta(t, 4.0, size.Z(), 1e-9)
}

func TestCollidableScaleAndYaw45(t *testing.T) {
	c := NewCollidable("crate", BoxFromCenter(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}), Transform{Scale: mgl64.Vec3{2, 3, 2}, YawDeg: 45})

	size := c.Bounds().Size()
	// a 2x2 footprint rotated 45 degrees spans its diagonal
	assert.InDelta(t, 2.8284271247, size.X(), 1e-6)
	assert.InDelta(t, 3.0, size.Y(), 1e-9)
	assert.InDelta(t, 2.8284271247, size.Z(), 1e-6)
}

func TestCatalogBoxes(t *testing.T) {
	floor := StaticBox("floor", AxisAlignedBox{Min: mgl64.Vec3{-10, -1, -10}, Max: mgl64.Vec3{10, 0, 10}})
	post := NewCollidable("post", BoxFromCenter(mgl64.Vec3{}, mgl64.Vec3{0.2, 3, 0.2}), Transform{Position: mgl64.Vec3{0, 1.5, 8}})
	cat := NewCatalog(floor, post)

	boxes := cat.Boxes()
	require.Len(t, boxes, 2)
	assert.Equal(t, floor.Bounds(), boxes[0])
	assert.Equal(t, post.Bounds(), boxes[1])
	assert.Equal(t, 2, cat.Len())
}

func TestBoxPenetratesIgnoresTouching(t *testing.T) {
	a := AxisAlignedBox{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	touching := a.Translate(mgl64.Vec3{1 - ContactEpsilon/2, 0, 0})
	deep := a.Translate(mgl64.Vec3{0.5, 0, 0})

	assert.True(t, a.Intersects(touching))
	assert.False(t, a.Penetrates(touching))
	assert.True(t, a.Penetrates(deep))
}
