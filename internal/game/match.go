package game

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Peter211231231231232131/basketbgallgame/internal/court"
	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
)

var (
	ErrTeamTaken      = errors.New("game: team already has a player")
	ErrDuplicateActor = errors.New("game: actor id already in match")
	ErrUnknownActor   = errors.New("game: unknown actor")
	ErrNotHolding     = errors.New("game: actor is not holding the ball")
)

// Options configures a Match. Zero values fall back to the defaults.
type Options struct {
	ID         string
	ScoreLimit int
	Actor      physics.ActorTuning
	Ball       physics.BallTuning
	Seed       int64
	Logger     *zap.Logger
}

// Match owns the court, both players and the ball, and advances them in a
// fixed order each tick. It is driven from a single goroutine; only the
// Apply methods are safe to call concurrently with Tick.
type Match struct {
	ID string

	court     *court.Court
	players   []*Player
	byID      map[physics.ActorID]*Player
	bots      map[physics.ActorID]*Bot
	ball      *physics.Projectile
	actors    physics.ActorStepper
	stepper   physics.ProjectileStepper
	predictor physics.Predictor

	status     MatchStatus
	score      map[Team]int
	winner     Team
	scoreLimit int
	cooldown   float64
	elapsed    float64
	ticks      uint64
	lastTouch  physics.ActorID

	rng    *rand.Rand
	inbox  *inbox
	events []Event
	log    *zap.Logger
}

func NewMatch(c *court.Court, opts Options) *Match {
	if opts.ScoreLimit <= 0 {
		opts.ScoreLimit = DefaultScoreLimit
	}
	if opts.Actor == (physics.ActorTuning{}) {
		opts.Actor = physics.DefaultActorTuning()
	}
	if opts.Ball == (physics.BallTuning{}) {
		opts.Ball = physics.DefaultBallTuning()
	}
	opts.Actor.FallFloorY = c.FallFloorY
	opts.Ball.FallFloorY = c.FallFloorY
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Match{
		ID:         opts.ID,
		court:      c,
		byID:       make(map[physics.ActorID]*Player),
		bots:       make(map[physics.ActorID]*Bot),
		ball:       physics.NewProjectile(c.BallSpawn),
		actors:     physics.ActorStepper{Tuning: opts.Actor, Colliders: c.Catalog},
		stepper:    physics.ProjectileStepper{Tuning: opts.Ball, Colliders: c.Catalog},
		predictor:  physics.NewPredictor(opts.Ball, c.Catalog),
		status:     StatusWaiting,
		score:      map[Team]int{TeamHome: 0, TeamAway: 0},
		scoreLimit: opts.ScoreLimit,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		inbox:      newInbox(),
		log:        opts.Logger.With(zap.String("match", opts.ID)),
	}
}

// AddPlayer seats a player on team at the team's spawn.
func (m *Match) AddPlayer(id physics.ActorID, name string, team Team, kind ActorKind) (*Player, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("game: invalid team %q", team)
	}
	if _, ok := m.byID[id]; ok {
		return nil, ErrDuplicateActor
	}
	for _, p := range m.players {
		if p.Team == team {
			return nil, ErrTeamTaken
		}
	}

	spawn := m.court.HomeSpawn
	if team == TeamAway {
		spawn = m.court.AwaySpawn
	}
	p := &Player{
		ID:   id,
		Name: name,
		Team: team,
		Kind: kind,
		Body: physics.NewKinematicActor(spawn, m.actors.Tuning.StaminaMax),
	}
	// face the hoop this team attacks
	if hoop, ok := m.court.Hoop(string(team)); ok {
		p.Yaw = physics.YawToward(spawn, hoop.Target)
	}
	m.players = append(m.players, p)
	m.byID[id] = p
	if kind == KindBot {
		m.bots[id] = NewBot(m.rng)
	}
	m.log.Info("player joined", zap.String("actor", string(id)), zap.String("team", string(team)), zap.Stringer("kind", kind))
	return p, nil
}

func (m *Match) Player(id physics.ActorID) (*Player, bool) {
	p, ok := m.byID[id]
	return p, ok
}

func (m *Match) Players() []*Player { return m.players }

func (m *Match) Ball() *physics.Projectile { return m.ball }

func (m *Match) Court() *court.Court { return m.court }

func (m *Match) Status() MatchStatus { return m.status }

func (m *Match) Score(t Team) int { return m.score[t] }

func (m *Match) Winner() Team { return m.winner }

func (m *Match) Elapsed() float64 { return m.elapsed }

// ApplyRemoteActor queues a relayed pose for the next tick.
func (m *Match) ApplyRemoteActor(u RemoteActorUpdate) { m.inbox.putActor(u) }

// ApplyRemoteBall queues a relayed ball state for the next tick.
func (m *Match) ApplyRemoteBall(u RemoteBallUpdate) { m.inbox.putBall(u) }

// LocalBallAuthority reports whether this side last touched the ball and
// so should publish its state.
func (m *Match) LocalBallAuthority() bool {
	p, ok := m.byID[m.lastTouch]
	return !ok || p.Kind != KindRemote
}

// Tick advances the match by dt seconds. inputs carries intent for local
// players; bots decide their own. Order: relay inbox, then each player
// (reconcile, move, possession), then the ball, then scoring.
func (m *Match) Tick(dt float64, inputs map[physics.ActorID]physics.InputState) []Event {
	if m.status == StatusCompleted || dt <= 0 {
		return nil
	}
	dt = math.Min(dt, physics.MaxFrameDelta)
	m.status = StatusInProgress
	m.events = nil
	m.elapsed += dt
	m.ticks++
	m.cooldown = math.Max(0, m.cooldown-dt)

	m.applyInbox()

	for _, p := range m.players {
		switch p.Kind {
		case KindRemote:
			continue
		case KindBot:
			in, shot := m.bots[p.ID].Decide(m.viewFor(p))
			m.updatePlayer(p, in, shot, dt)
		default:
			m.updatePlayer(p, inputs[p.ID], nil, dt)
		}
	}

	res := m.stepper.Step(m.ball, dt)
	if res.Reset {
		m.emit(Event{Type: EventBallReset})
		m.log.Debug("ball out of bounds, reset to spawn")
	}
	m.checkScore()
	return m.events
}

func (m *Match) updatePlayer(p *Player, in physics.InputState, shot *physics.ShotRequest, dt float64) {
	m.reconcile(p)

	p.Yaw = in.Yaw
	p.Pitch = in.Pitch
	res := m.actors.Step(p.Body, in, dt)
	if res.Reset {
		m.emit(Event{Type: EventActorReset, Actor: p.ID, Team: p.Team})
		m.log.Debug("player out of bounds, reset to spawn", zap.String("actor", string(p.ID)))
	}

	switch {
	case p.Holding && shot != nil:
		m.release(p, m.botLaunch(p, *shot))
	case p.Holding && in.Shoot:
		m.release(p, p.ShotVelocity(in.Power))
	case !p.Holding:
		if in.Steal {
			m.trySteal(p)
		}
		if !p.Holding {
			m.tryGrab(p)
		}
	}

	if p.Holding {
		m.ball.Position = p.HandPosition()
		m.ball.Velocity = p.Body.Velocity
	}
}

// reconcile makes the player's flag agree with the authoritative owner.
func (m *Match) reconcile(p *Player) {
	p.Holding = m.ball.Owner.Is(p.ID)
}

func (m *Match) tryGrab(p *Player) {
	if m.ball.Owner.Held() || m.cooldown > 0 || !p.CanReach(m.ball.Position) {
		return
	}
	m.ball.Owner = physics.OwnedBy(p.ID)
	m.ball.Velocity = mgl64.Vec3{}
	m.ball.Trail.Clear()
	p.Holding = true
	m.cooldown = PickupCooldown
	m.lastTouch = p.ID
	m.emit(Event{Type: EventGrab, Actor: p.ID, Team: p.Team})
}

// trySteal moves the ball to p. The victim's flag is left alone; its own
// reconcile clears it on its next update.
func (m *Match) trySteal(p *Player) {
	ownerID, held := m.ball.Owner.ID()
	if !held || m.cooldown > 0 {
		return
	}
	victim, ok := m.byID[ownerID]
	if !ok || victim.Team == p.Team {
		return
	}
	if physics.HorizontalDistance(p.Body.Position, victim.Body.Position) > StealRadius {
		return
	}
	m.ball.Owner = physics.OwnedBy(p.ID)
	p.Holding = true
	m.cooldown = PickupCooldown
	m.lastTouch = p.ID
	m.emit(Event{Type: EventSteal, Actor: p.ID, Team: p.Team})
	m.log.Debug("steal", zap.String("actor", string(p.ID)), zap.String("from", string(victim.ID)))
}

func (m *Match) release(p *Player, v mgl64.Vec3) {
	m.ball.Owner = physics.NoOwner
	m.ball.Position = p.HandPosition()
	m.ball.Velocity = v
	m.ball.Trail.Clear()
	p.Holding = false
	m.cooldown = PickupCooldown
	m.lastTouch = p.ID
	m.emit(Event{Type: EventShot, Actor: p.ID, Team: p.Team})
}

// botLaunch solves the shot, retrying steeper before giving up with a lob
// toward the target.
func (m *Match) botLaunch(p *Player, req physics.ShotRequest) mgl64.Vec3 {
	req.Origin = p.HandPosition()
	g := m.stepper.Tuning.Gravity
	drag := m.stepper.Tuning.Drag
	for _, angle := range []float64{req.LaunchAngleDeg, BotFallbackAngleDeg} {
		req.LaunchAngleDeg = angle
		v, err := physics.SolveLaunch(req, g)
		if err == nil {
			return physics.CompensateDrag(req.Origin, req.Target, v, drag)
		}
		if !errors.Is(err, physics.ErrNoSolution) {
			break
		}
	}
	m.log.Warn("no launch solution, throwing a lob", zap.String("actor", string(p.ID)))
	dir := physics.Horizontal(req.Target.Sub(req.Origin))
	if dir.Len() < 1e-6 {
		dir = physics.FacingDirection(p.Yaw)
	}
	return launchVector(dir, mgl64.DegToRad(BotErrantAngleDeg), MinShotSpeed)
}

func (m *Match) checkScore() {
	if m.ball.Owner.Held() || m.ball.Velocity.Y() >= 0 {
		return
	}
	box := m.ball.Bounds()
	for _, hoop := range m.court.Hoops {
		if !hoop.Trigger.Intersects(box) {
			continue
		}
		team := Team(hoop.Team)
		m.score[team] += PointsPerBasket
		m.emit(Event{Type: EventScore, Actor: m.lastTouch, Team: team, Points: PointsPerBasket})
		m.log.Info("basket",
			zap.String("team", string(team)),
			zap.Int("home", m.score[TeamHome]),
			zap.Int("away", m.score[TeamAway]))

		m.ball.ResetToSpawn()
		m.cooldown = PickupCooldown
		if m.score[team] >= m.scoreLimit {
			m.status = StatusCompleted
			m.winner = team
			m.emit(Event{Type: EventMatchOver, Team: team})
			m.log.Info("match over", zap.String("winner", string(team)), zap.Float64("elapsed", m.elapsed))
		}
		return
	}
}

// applyInbox copies buffered relay state onto remote players and, where
// the remote side has authority, onto the ball.
func (m *Match) applyInbox() {
	actors, ball := m.inbox.drain()
	for id, u := range actors {
		p, ok := m.byID[id]
		if !ok || p.Kind != KindRemote {
			continue
		}
		p.Body.Position = u.Position
		p.Body.Velocity = mgl64.Vec3{}
		p.Yaw = u.Yaw
	}
	if ball != nil {
		m.applyRemoteBall(*ball)
	}
	for _, p := range m.players {
		if p.Kind == KindRemote {
			m.reconcile(p)
		}
	}
}

func (m *Match) applyRemoteBall(u RemoteBallUpdate) {
	if u.Owner != "" {
		p, ok := m.byID[u.Owner]
		if !ok || p.Kind != KindRemote {
			// our own players' possession is decided here
			return
		}
		m.ball.Owner = physics.OwnedBy(u.Owner)
		m.lastTouch = u.Owner
	} else {
		if m.LocalBallAuthority() {
			return
		}
		m.ball.Owner = physics.NoOwner
	}
	m.ball.Position = u.Position
	m.ball.Velocity = u.Velocity
}

// AimPreview predicts the shot the holder would take with in. Live state is
// not touched.
func (m *Match) AimPreview(id physics.ActorID, in physics.InputState) ([]physics.TrajectorySample, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrUnknownActor
	}
	if !m.ball.Owner.Is(id) {
		return nil, ErrNotHolding
	}
	aim := *p
	aim.Yaw, aim.Pitch = in.Yaw, in.Pitch
	return m.predictor.Predict(aim.HandPosition(), aim.ShotVelocity(in.Power)), nil
}

func (m *Match) viewFor(p *Player) View {
	v := View{Self: p, Ball: m.ball, Cooldown: m.cooldown, LastTouch: m.lastTouch}
	for _, o := range m.players {
		if o.Team != p.Team {
			v.Opponent = o
		}
	}
	if h, ok := m.court.Hoop(string(p.Team)); ok {
		v.Attack = h
	}
	return v
}

func (m *Match) emit(e Event) {
	e.At = m.elapsed
	m.events = append(m.events, e)
}
