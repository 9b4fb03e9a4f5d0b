package physics

import "github.com/go-gl/mathgl/mgl64"

// TrajectorySample is one preview point. Samples after the first collision
// are not visible.
type TrajectorySample struct {
	Position mgl64.Vec3 `json:"position"`
	Visible  bool       `json:"visible"`
}

// Predictor previews a launch without touching any live state.
type Predictor struct {
	Tuning    BallTuning
	Colliders ColliderSet
	Steps     int
	StepTime  float64
}

func NewPredictor(t BallTuning, colliders ColliderSet) Predictor {
	return Predictor{Tuning: t, Colliders: colliders, Steps: PredictSteps, StepTime: PredictStepTime}
}

// Predict samples the free flight of a ball launched from origin with
// velocity. The first sample is origin. Once a segment between samples
// hits a collider the sample is clamped to the hit point and the rest are
// hidden.
func (p Predictor) Predict(origin, velocity mgl64.Vec3) []TrajectorySample {
	n := p.Steps
	if n <= 0 {
		n = PredictSteps
	}
	h := p.StepTime
	if h <= 0 {
		h = PredictStepTime
	}
	var boxes []AxisAlignedBox
	if p.Colliders != nil {
		boxes = p.Colliders.Boxes()
	}

	out := make([]TrajectorySample, n)
	pos, vel := origin, velocity
	out[0] = TrajectorySample{Position: pos, Visible: true}
	hit := false
	for i := 1; i < n; i++ {
		if hit {
			out[i] = TrajectorySample{Position: pos}
			continue
		}
		next, nv := p.Tuning.advance(pos, vel, h)
		if c, ok := SegmentCast(pos, next, boxes); ok {
			next = c.Point
			hit = true
		}
		out[i] = TrajectorySample{Position: next, Visible: true}
		pos, vel = next, nv
	}
	return out
}
