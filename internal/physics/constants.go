// Package physics is the deterministic court simulation: box collision,
// kinematic players, the ball and shot prediction.
package physics

// Tuning defaults for the court simulation. Units are meters and seconds.
const (
	Gravity        = 20.0
	ContactEpsilon = 1e-3 // overlaps thinner than this count as touching
	MaxFrameDelta  = 0.1
	SubStep        = 0.01
	stepEpsilon    = 1e-9

	// Actor
	PlayerWidth      = 0.8
	PlayerHeight     = 1.8
	BaseSpeed        = 6.0
	SprintMultiplier = 1.6
	MoveAccel        = 90.0
	GroundDamping    = 8.0
	JumpSpeed        = 7.5
	StaminaMax       = 100.0
	StaminaDrain     = 30.0 // per second while sprinting
	StaminaRegen     = 18.0 // per second otherwise
	FallFloorY       = -10.0

	// Ball
	BallRadius      = 0.12
	BallRestitution = 0.72
	FloorFriction   = 0.85 // tangential velocity kept per floor contact
	AirDrag         = 0.1
	RestSpeed       = 1.0 // floor rebounds slower than this settle; must exceed the sub-step gravity gain
	TrailLength     = 12

	// Trajectory preview
	PredictSteps    = 30
	PredictStepTime = 0.05
)

// ActorTuning parameterizes a KinematicActor step.
type ActorTuning struct {
	Gravity          float64
	Damping          float64
	Accel            float64
	BaseSpeed        float64
	SprintMultiplier float64
	JumpSpeed        float64
	StaminaMax       float64
	StaminaDrain     float64
	StaminaRegen     float64
	FallFloorY       float64
}

// DefaultActorTuning returns the stock player movement numbers.
func DefaultActorTuning() ActorTuning {
	return ActorTuning{
		Gravity:          Gravity,
		Damping:          GroundDamping,
		Accel:            MoveAccel,
		BaseSpeed:        BaseSpeed,
		SprintMultiplier: SprintMultiplier,
		JumpSpeed:        JumpSpeed,
		StaminaMax:       StaminaMax,
		StaminaDrain:     StaminaDrain,
		StaminaRegen:     StaminaRegen,
		FallFloorY:       FallFloorY,
	}
}

// BallTuning parameterizes projectile flight, bounce and preview.
type BallTuning struct {
	Gravity     float64
	Drag        float64
	Restitution float64
	Friction    float64
	RestSpeed   float64
	SubStep     float64
	FallFloorY  float64
}

// DefaultBallTuning returns the stock ball numbers.
func DefaultBallTuning() BallTuning {
	return BallTuning{
		Gravity:     Gravity,
		Drag:        AirDrag,
		Restitution: BallRestitution,
		Friction:    FloorFriction,
		RestSpeed:   RestSpeed,
		SubStep:     SubStep,
		FallFloorY:  FallFloorY,
	}
}

func (t BallTuning) subStep() float64 {
	if t.SubStep <= 0 {
		return SubStep
	}
	return t.SubStep
}
