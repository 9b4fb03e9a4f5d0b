package game

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Peter211231231231232131/basketbgallgame/internal/court"
	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
)

// View is what a bot can see when deciding.
type View struct {
	Self      *Player
	Opponent  *Player
	Ball      *physics.Projectile
	Attack    court.Hoop
	Cooldown  float64
	LastTouch physics.ActorID
}

// Bot chases loose balls, pressures the holder and shoots from range.
type Bot struct {
	rng *rand.Rand
}

func NewBot(rng *rand.Rand) *Bot {
	return &Bot{rng: rng}
}

// Decide returns this tick's input and, when the bot wants to shoot, the
// shot to solve.
func (b *Bot) Decide(v View) (physics.InputState, *physics.ShotRequest) {
	self := v.Self
	pos := self.Body.Position
	ownerID, held := v.Ball.Owner.ID()

	switch {
	case held && ownerID == self.ID:
		target := v.Attack.Target
		dist := physics.HorizontalDistance(pos, target)
		if dist >= BotShotMinRange && dist <= BotShotRange && self.Body.Grounded() {
			in := physics.InputState{Yaw: physics.YawToward(pos, target)}
			aim := *self
			aim.Yaw = in.Yaw
			origin := aim.HandPosition()
			angle := EntryAngle(origin, target) + (b.rng.Float64()*2-1)*BotAimJitterDeg
			return in, &physics.ShotRequest{Origin: origin, Target: target, LaunchAngleDeg: angle}
		}
		if dist < BotShotMinRange {
			// back out from under the rim
			away := physics.Horizontal(pos.Sub(target))
			if away.Len() < 1e-6 {
				away = mgl64.Vec3{0, 0, 1}
			}
			return moveToward(pos, pos.Add(away.Normalize().Mul(2)), false), nil
		}
		// drive at full speed; defenders only sprint to catch up
		return moveToward(pos, target, true), nil

	case held && v.Opponent != nil:
		opp := v.Opponent.Body.Position
		dist := physics.HorizontalDistance(pos, opp)
		in := moveToward(pos, opp, dist > BotSprintDistance)
		in.Steal = dist <= BotStealDistance && v.Cooldown == 0
		return in, nil

	default:
		ball := v.Ball.Position
		dist := physics.HorizontalDistance(pos, ball)
		in := moveToward(pos, ball, dist > BotSprintDistance)
		// never jump at our own shot on its way to the rim
		if self.Body.Grounded() && v.LastTouch != self.ID && dist < 1 && ball.Y()-pos.Y() > BotJumpHeight {
			in.Jump = true
		}
		return in, nil
	}
}

// EntryAngle is the launch elevation in degrees whose drag-free arc drops
// through target at BotEntrySlope, clamped to the bot's comfortable range.
func EntryAngle(origin, target mgl64.Vec3) float64 {
	x := physics.HorizontalDistance(origin, target)
	if x < 1e-6 {
		return BotMaxLaunchAngleDeg
	}
	y := target.Y() - origin.Y()
	deg := mgl64.RadToDeg(math.Atan(BotEntrySlope + 2*y/x))
	return mgl64.Clamp(deg, BotMinLaunchAngleDeg, BotMaxLaunchAngleDeg)
}

func moveToward(from, to mgl64.Vec3, sprint bool) physics.InputState {
	return physics.InputState{
		Forward: physics.HorizontalDistance(from, to) > 0.15,
		Sprint:  sprint,
		Yaw:     physics.YawToward(from, to),
	}
}
