// Package court turns a court layout into the collidable catalog and hoop
// volumes the match runs against.
package court

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
)

//go:embed default.yaml
var defaultLayout []byte

const (
	defaultRimThickness  = 0.04
	defaultTriggerDepth  = 0.2
	defaultTriggerHeight = 0.1
)

// Hoop is a built rim: the scoring volume under the ring and the point
// shots aim at.
type Hoop struct {
	Team      string
	Target    mgl64.Vec3
	Trigger   physics.AxisAlignedBox
	RimRadius float64
}

// Court is the immutable built environment.
type Court struct {
	Name       string
	Catalog    *physics.Catalog
	Hoops      []Hoop
	HomeSpawn  mgl64.Vec3
	AwaySpawn  mgl64.Vec3
	BallSpawn  mgl64.Vec3
	FallFloorY float64
}

// Build assembles a Court from a validated layout.
func Build(l *Layout) (*Court, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	var items []*physics.Collidable
	for i, p := range l.Pieces {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", p.Kind, i)
		}
		local := physics.BoxFromCenter(mgl64.Vec3{}, p.Size)
		items = append(items, physics.NewCollidable(name, local, physics.Transform{Position: p.Center, YawDeg: p.YawDeg}))
	}

	c := &Court{
		Name:       l.Name,
		HomeSpawn:  l.Spawns.Home,
		AwaySpawn:  l.Spawns.Away,
		BallSpawn:  l.Spawns.Ball,
		FallFloorY: l.FallFloorY,
	}
	for _, h := range l.Hoops {
		items = append(items, rimPieces(h)...)
		c.Hoops = append(c.Hoops, buildHoop(h))
	}
	c.Catalog = physics.NewCatalog(items...)
	return c, nil
}

// Parse decodes and builds a YAML layout.
func Parse(data []byte) (*Court, error) {
	l, err := ReadLayout(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return Build(l)
}

// Load builds the court in path, or the embedded default when path is empty.
func Load(path string) (*Court, error) {
	if path == "" {
		return Parse(defaultLayout)
	}
	l, err := LoadLayout(path)
	if err != nil {
		return nil, err
	}
	return Build(l)
}

// Default returns the embedded regulation half-court pair.
func Default() *Court {
	c, err := Parse(defaultLayout)
	if err != nil {
		panic(fmt.Sprintf("court: embedded default layout: %v", err))
	}
	return c
}

// Hoop returns the rim team scores through.
func (c *Court) Hoop(team string) (Hoop, bool) {
	for _, h := range c.Hoops {
		if h.Team == team {
			return h, true
		}
	}
	return Hoop{}, false
}

// rimPieces approximates the ring with four thin bars around the opening.
func rimPieces(h HoopSpec) []*physics.Collidable {
	th := h.RimThickness
	if th <= 0 {
		th = defaultRimThickness
	}
	r := h.RimRadius
	span := 2*r + th
	c := h.RimCenter
	bar := func(suffix string, offset, size mgl64.Vec3) *physics.Collidable {
		return physics.StaticBox("rim-"+h.Team+"-"+suffix, physics.BoxFromCenter(c.Add(offset), size))
	}
	return []*physics.Collidable{
		bar("left", mgl64.Vec3{-r, 0, 0}, mgl64.Vec3{th, th, span}),
		bar("right", mgl64.Vec3{r, 0, 0}, mgl64.Vec3{th, th, span}),
		bar("front", mgl64.Vec3{0, 0, -r}, mgl64.Vec3{span, th, th}),
		bar("back", mgl64.Vec3{0, 0, r}, mgl64.Vec3{span, th, th}),
	}
}

func buildHoop(h HoopSpec) Hoop {
	depth := h.TriggerDepth
	if depth <= 0 {
		depth = defaultTriggerDepth
	}
	height := h.TriggerHeight
	if height <= 0 {
		height = defaultTriggerHeight
	}
	// The trigger hangs just under the ring so only a ball that went
	// through the opening from above can reach it.
	width := 1.2 * h.RimRadius
	center := h.RimCenter.Sub(mgl64.Vec3{0, depth, 0})
	return Hoop{
		Team:      h.Team,
		Target:    h.RimCenter,
		Trigger:   physics.BoxFromCenter(center, mgl64.Vec3{width, height, width}),
		RimRadius: h.RimRadius,
	}
}
