package court

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// ErrInvalidLayout wraps every layout validation failure.
var ErrInvalidLayout = errors.New("court: invalid layout")

// Piece kinds accepted in a layout file.
const (
	KindFloor     = "floor"
	KindWall      = "wall"
	KindBackboard = "backboard"
	KindPost      = "post"
	KindProp      = "prop"
)

var validKinds = map[string]bool{
	KindFloor:     true,
	KindWall:      true,
	KindBackboard: true,
	KindPost:      true,
	KindProp:      true,
}

// Layout is the on-disk description of a court.
type Layout struct {
	Name       string     `yaml:"name"`
	FallFloorY float64    `yaml:"fall_floor_y"`
	Spawns     Spawns     `yaml:"spawns"`
	Pieces     []Piece    `yaml:"pieces"`
	Hoops      []HoopSpec `yaml:"hoops"`
}

type Spawns struct {
	Home mgl64.Vec3 `yaml:"home"`
	Away mgl64.Vec3 `yaml:"away"`
	Ball mgl64.Vec3 `yaml:"ball"`
}

// Piece is one static box. Center and YawDeg place it; Size is the full
// extent before rotation.
type Piece struct {
	Name   string     `yaml:"name"`
	Kind   string     `yaml:"kind"`
	Center mgl64.Vec3 `yaml:"center"`
	Size   mgl64.Vec3 `yaml:"size"`
	YawDeg float64    `yaml:"yaw_deg"`
}

// HoopSpec describes a rim. Team is the side that scores through it.
type HoopSpec struct {
	Team          string     `yaml:"team"`
	RimCenter     mgl64.Vec3 `yaml:"rim_center"`
	RimRadius     float64    `yaml:"rim_radius"`
	RimThickness  float64    `yaml:"rim_thickness"`
	TriggerDepth  float64    `yaml:"trigger_depth"`
	TriggerHeight float64    `yaml:"trigger_height"`
}

// ReadLayout decodes a YAML layout, rejecting unknown keys.
func ReadLayout(r io.Reader) (*Layout, error) {
	var l Layout
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadLayout reads a layout file from disk.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read court file: %w", err)
	}
	return ReadLayout(bytes.NewReader(data))
}

func (l *Layout) Validate() error {
	if len(l.Pieces) == 0 {
		return fmt.Errorf("%w: no pieces", ErrInvalidLayout)
	}
	hasFloor := false
	for i, p := range l.Pieces {
		if !validKinds[p.Kind] {
			return fmt.Errorf("%w: piece %d (%s) has unknown kind %q", ErrInvalidLayout, i, p.Name, p.Kind)
		}
		if p.Size.X() <= 0 || p.Size.Y() <= 0 || p.Size.Z() <= 0 {
			return fmt.Errorf("%w: piece %d (%s) has non-positive size", ErrInvalidLayout, i, p.Name)
		}
		if p.Kind == KindFloor {
			hasFloor = true
		}
	}
	if !hasFloor {
		return fmt.Errorf("%w: no floor piece", ErrInvalidLayout)
	}

	seen := map[string]bool{}
	for _, h := range l.Hoops {
		if h.Team != "home" && h.Team != "away" {
			return fmt.Errorf("%w: hoop team %q is not home or away", ErrInvalidLayout, h.Team)
		}
		if seen[h.Team] {
			return fmt.Errorf("%w: duplicate hoop for team %q", ErrInvalidLayout, h.Team)
		}
		seen[h.Team] = true
		if h.RimRadius <= 0 {
			return fmt.Errorf("%w: hoop %q rim radius must be positive", ErrInvalidLayout, h.Team)
		}
	}
	if len(l.Hoops) != 2 {
		return fmt.Errorf("%w: want 2 hoops, got %d", ErrInvalidLayout, len(l.Hoops))
	}

	floorY := l.FallFloorY
	for name, s := range map[string]mgl64.Vec3{"home": l.Spawns.Home, "away": l.Spawns.Away, "ball": l.Spawns.Ball} {
		if s.Y() <= floorY {
			return fmt.Errorf("%w: %s spawn is below the fall floor", ErrInvalidLayout, name)
		}
	}
	return nil
}
