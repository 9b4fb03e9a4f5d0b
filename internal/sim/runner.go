// Package sim drives a match at a fixed frame rate and streams the local
// side's state to the relay.
package sim

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Peter211231231231232131/basketbgallgame/internal/game"
	"github.com/Peter211231231231232131/basketbgallgame/internal/physics"
	"github.com/Peter211231231231232131/basketbgallgame/internal/protocol"
)

// Publisher is the outbound half of the relay client.
type Publisher interface {
	SendActor(protocol.ActorStateData)
	SendBall(protocol.BallStateData)
	SendScore(protocol.ScoreData)
}

type Runner struct {
	Match *game.Match
	// Local is the player whose pose is published. Empty disables publishing.
	Local          physics.ActorID
	Publisher      Publisher
	TickHz         int
	BroadcastEvery int
	MaxDuration    time.Duration
	// Realtime paces ticks on a wall clock; otherwise the match runs flat out.
	Realtime bool
	Log      *zap.Logger
}

// Summary is what is left when a run ends.
type Summary struct {
	Home      int
	Away      int
	Winner    game.Team
	Ticks     uint64
	Elapsed   time.Duration
	Completed bool
}

// Run ticks the match until it completes, MaxDuration of match time
// passes, or ctx is done.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	hz := r.TickHz
	if hz <= 0 {
		hz = 60
	}
	every := r.BroadcastEvery
	if every <= 0 {
		every = 1
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	dt := 1.0 / float64(hz)

	var ticker *time.Ticker
	if r.Realtime {
		ticker = time.NewTicker(time.Second / time.Duration(hz))
		defer ticker.Stop()
	}

	var ticks uint64
	for r.Match.Status() != game.StatusCompleted {
		if r.MaxDuration > 0 && time.Duration(r.Match.Elapsed()*float64(time.Second)) >= r.MaxDuration {
			log.Info("match time limit reached", zap.Duration("limit", r.MaxDuration))
			break
		}
		if ticker != nil {
			select {
			case <-ctx.Done():
				return r.summary(ticks), ctx.Err()
			case <-ticker.C:
			}
		} else if err := ctx.Err(); err != nil {
			return r.summary(ticks), err
		}

		events := r.Match.Tick(dt, nil)
		ticks++
		for _, e := range events {
			r.onEvent(log, e)
		}
		if ticks%uint64(every) == 0 {
			r.publish()
		}
	}
	r.publish()
	return r.summary(ticks), nil
}

func (r *Runner) onEvent(log *zap.Logger, e game.Event) {
	switch e.Type {
	case game.EventScore:
		log.Info("basket", zap.String("team", string(e.Team)), zap.String("actor", string(e.Actor)),
			zap.Int("home", r.Match.Score(game.TeamHome)), zap.Int("away", r.Match.Score(game.TeamAway)))
		if r.Publisher != nil && r.Local != "" {
			r.Publisher.SendScore(protocol.ScoreData{
				Home:   r.Match.Score(game.TeamHome),
				Away:   r.Match.Score(game.TeamAway),
				Scorer: string(e.Actor),
			})
		}
	case game.EventSteal:
		log.Debug("steal", zap.String("actor", string(e.Actor)))
	case game.EventMatchOver:
		log.Info("match over", zap.String("winner", string(e.Team)))
	}
}

// publish sends the local pose and, while this side has authority, the
// ball.
func (r *Runner) publish() {
	if r.Publisher == nil || r.Local == "" {
		return
	}
	p, ok := r.Match.Player(r.Local)
	if !ok {
		return
	}
	r.Publisher.SendActor(protocol.ActorStateData{Position: p.Body.Position, Yaw: p.Yaw})

	if !r.Match.LocalBallAuthority() {
		return
	}
	ball := r.Match.Ball()
	owner, _ := ball.Owner.ID()
	r.Publisher.SendBall(protocol.BallStateData{Owner: string(owner), Position: ball.Position, Velocity: ball.Velocity})
}

func (r *Runner) summary(ticks uint64) Summary {
	return Summary{
		Home:      r.Match.Score(game.TeamHome),
		Away:      r.Match.Score(game.TeamAway),
		Winner:    r.Match.Winner(),
		Ticks:     ticks,
		Elapsed:   time.Duration(r.Match.Elapsed() * float64(time.Second)),
		Completed: r.Match.Status() == game.StatusCompleted,
	}
}
